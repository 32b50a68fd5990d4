package service

import (
	"context"
	"testing"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireEndedEventTickets(t *testing.T) {
	store := newMemStore()
	svc := NewExpirationService(fakeTickets{store}, nil)

	ended := store.addEvent(domain.Event{Name: "Ended", End: timePtr(testNow.Add(-time.Hour))})
	endsNow := store.addEvent(domain.Event{Name: "Ends now", End: timePtr(testNow)})
	open := store.addEvent(domain.Event{Name: "Open ended"})

	endedType := store.addTicketType(ended.ID, nil)
	purchased := store.addTicket(endedType.ID, store.addUser(), domain.TicketStatusPurchased, testNow)
	used := store.addTicket(endedType.ID, store.addUser(), domain.TicketStatusUsed, testNow)
	cancelled := store.addTicket(endedType.ID, store.addUser(), domain.TicketStatusCancelled, testNow)
	boundary := store.addTicket(store.addTicketType(endsNow.ID, nil).ID, store.addUser(), domain.TicketStatusPurchased, testNow)
	noEnd := store.addTicket(store.addTicketType(open.ID, nil).ID, store.addUser(), domain.TicketStatusPurchased, testNow)

	n, err := svc.ExpireEndedEventTickets(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, domain.TicketStatusExpired, store.ticketStatus(purchased.ID))
	assert.Equal(t, domain.TicketStatusUsed, store.ticketStatus(used.ID))
	assert.Equal(t, domain.TicketStatusCancelled, store.ticketStatus(cancelled.ID))
	assert.Equal(t, domain.TicketStatusPurchased, store.ticketStatus(boundary.ID))
	assert.Equal(t, domain.TicketStatusPurchased, store.ticketStatus(noEnd.ID))

	n, err = svc.ExpireEndedEventTickets(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCompleteEndedEvents(t *testing.T) {
	store := newMemStore()
	svc := NewEventStatusService(fakeEvents{store}, nil)

	ended := store.addEvent(domain.Event{Name: "Ended", End: timePtr(testNow.Add(-time.Minute))})
	draft := store.addEvent(domain.Event{Name: "Draft", Status: domain.EventStatusDraft, End: timePtr(testNow.Add(-time.Minute))})
	future := store.addEvent(domain.Event{Name: "Future", End: timePtr(testNow.Add(time.Hour))})

	n, err := svc.CompleteEndedEvents(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events := fakeEvents{store}
	for id, want := range map[*domain.Event]domain.EventStatus{
		ended:  domain.EventStatusCompleted,
		draft:  domain.EventStatusDraft,
		future: domain.EventStatusPublished,
	} {
		got, err := events.GetByID(context.Background(), id.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, got.Name)
	}

	n, err = svc.CompleteEndedEvents(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, n)
}
