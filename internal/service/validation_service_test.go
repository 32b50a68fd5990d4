package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationFixture struct {
	store     *memStore
	clock     *clock.Fixed
	publisher *MockEventPublisher
	svc       ValidationService
	event     *domain.Event
	ticketTyp *domain.TicketType
}

func newValidationFixture(t *testing.T) *validationFixture {
	t.Helper()
	store := newMemStore()
	clk := clock.NewFixed(testNow)
	publisher := &MockEventPublisher{}

	svc := NewValidationService(
		fakeTx{},
		fakeTickets{store},
		fakeQrCodes{store},
		fakeValidations{store},
		publisher,
		clk,
		nil,
	)

	event := store.addEvent(domain.Event{
		Name:  "Festival",
		Start: timePtr(testNow.Add(-time.Hour)),
		End:   timePtr(testNow.Add(3 * time.Hour)),
	})
	tt := store.addTicketType(event.ID, nil)
	return &validationFixture{store: store, clock: clk, publisher: publisher, svc: svc, event: event, ticketTyp: tt}
}

func (f *validationFixture) purchased() *domain.Ticket {
	return f.store.addTicket(f.ticketTyp.ID, f.store.addUser(), domain.TicketStatusPurchased, testNow.Add(-24*time.Hour))
}

func TestValidate_ManualThenAlreadyUsed(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()

	first, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusValid, first.Status)
	assert.Equal(t, domain.ValidationMethodManual, first.Method)
	require.NotNil(t, first.TicketID)
	assert.Equal(t, ticket.ID, *first.TicketID)
	assert.Equal(t, testNow, first.ValidatedAt)
	assert.Equal(t, domain.TicketStatusUsed, f.store.ticketStatus(ticket.ID))

	second, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusAlreadyUsed, second.Status)
	assert.Equal(t, 2, f.store.validationCount())
	assert.Len(t, f.publisher.validated, 2)
}

func TestValidate_LostAdmissionRaceReportsAlreadyUsed(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	f.store.validCreateErr = domain.ErrAlreadyAdmitted

	v, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusAlreadyUsed, v.Status)
	require.NotNil(t, v.TicketID)
	assert.Equal(t, ticket.ID, *v.TicketID)
	assert.Equal(t, 1, f.store.validationCount())
	assert.Len(t, f.publisher.validated, 1)
}

func TestValidate_ByQrCode(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	qr := f.store.addQrCode(ticket.ID, domain.QrCodeStatusActive)

	v, err := f.svc.ValidateByQrCode(context.Background(), qr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusValid, v.Status)
	assert.Equal(t, domain.ValidationMethodQRScan, v.Method)
	assert.Equal(t, ticket.ID, *v.TicketID)
}

func TestValidate_ConcurrentScansAdmitOnce(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	qr := f.store.addQrCode(ticket.ID, domain.QrCodeStatusActive)

	const scanners = 20
	results := make([]*domain.TicketValidation, scanners)
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var (
				v   *domain.TicketValidation
				err error
			)
			if i%2 == 0 {
				v, err = f.svc.ValidateByQrCode(context.Background(), qr.ID)
			} else {
				v, err = f.svc.ValidateManually(context.Background(), ticket.ID)
			}
			if err != nil {
				t.Errorf("validate: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	counts := map[domain.ValidationStatus]int{}
	for _, v := range results {
		require.NotNil(t, v)
		counts[v.Status]++
	}
	assert.Equal(t, 1, counts[domain.ValidationStatusValid])
	assert.Equal(t, scanners-1, counts[domain.ValidationStatusAlreadyUsed])
	assert.Equal(t, scanners, f.store.validationCount())
	assert.Equal(t, domain.TicketStatusUsed, f.store.ticketStatus(ticket.ID))
}

func TestValidate_LazyExpiration(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	qr := f.store.addQrCode(ticket.ID, domain.QrCodeStatusActive)

	f.clock.Set(f.event.End.Add(time.Microsecond))

	v, err := f.svc.ValidateByQrCode(context.Background(), qr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusExpired, v.Status)
	assert.Equal(t, domain.TicketStatusExpired, f.store.ticketStatus(ticket.ID))
}

func TestValidate_AtEventEndIsStillAdmitted(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	f.clock.Set(*f.event.End)

	v, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusValid, v.Status)
}

func TestValidate_UsedTicketAfterEventEndIsLeftUsed(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.store.addTicket(f.ticketTyp.ID, f.store.addUser(), domain.TicketStatusUsed, testNow)
	f.clock.Set(f.event.End.Add(time.Hour))

	v, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusExpired, v.Status)
	assert.Equal(t, domain.TicketStatusUsed, f.store.ticketStatus(ticket.ID))
}

func TestValidate_StatusRules(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TicketStatus
		want   domain.ValidationStatus
	}{
		{"expired", domain.TicketStatusExpired, domain.ValidationStatusExpired},
		{"used", domain.TicketStatusUsed, domain.ValidationStatusAlreadyUsed},
		{"cancelled", domain.TicketStatusCancelled, domain.ValidationStatusInvalid},
		{"purchased", domain.TicketStatusPurchased, domain.ValidationStatusValid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newValidationFixture(t)
			ticket := f.store.addTicket(f.ticketTyp.ID, f.store.addUser(), tc.status, testNow)

			v, err := f.svc.ValidateManually(context.Background(), ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Status)
			require.NotNil(t, v.TicketID)
			assert.Equal(t, ticket.ID, *v.TicketID)
		})
	}
}

func TestValidate_PriorValidRecordWins(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()
	require.NoError(t, fakeValidations{f.store}.Create(context.Background(),
		domain.NewTicketValidation(&ticket.ID, domain.ValidationMethodManual, domain.ValidationStatusValid, testNow)))

	v, err := f.svc.ValidateManually(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusAlreadyUsed, v.Status)
	assert.Equal(t, domain.TicketStatusPurchased, f.store.ticketStatus(ticket.ID))
}

func TestValidate_UnresolvableIDs(t *testing.T) {
	f := newValidationFixture(t)
	revoked := f.store.addQrCode(f.purchased().ID, domain.QrCodeStatusRevoked)

	tests := []struct {
		name string
		run  func() (*domain.TicketValidation, error)
	}{
		{"unknown qr code", func() (*domain.TicketValidation, error) {
			return f.svc.ValidateByQrCode(context.Background(), uuid.New())
		}},
		{"revoked qr code", func() (*domain.TicketValidation, error) {
			return f.svc.ValidateByQrCode(context.Background(), revoked.ID)
		}},
		{"unknown ticket", func() (*domain.TicketValidation, error) {
			return f.svc.ValidateManually(context.Background(), uuid.New())
		}},
		{"malformed id", func() (*domain.TicketValidation, error) {
			return f.svc.Validate(context.Background(), "not-a-uuid", domain.ValidationMethodQRScan)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := f.store.validationCount()

			v, err := tc.run()
			require.NoError(t, err)
			assert.Equal(t, domain.ValidationStatusInvalid, v.Status)
			assert.Nil(t, v.TicketID)
			assert.Equal(t, before+1, f.store.validationCount())
		})
	}
}

func TestValidate_DispatchesOnMethod(t *testing.T) {
	f := newValidationFixture(t)
	ticket := f.purchased()

	// a ticket id is not a QR code id
	v, err := f.svc.Validate(context.Background(), ticket.ID.String(), domain.ValidationMethodQRScan)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusInvalid, v.Status)

	v, err = f.svc.Validate(context.Background(), " "+ticket.ID.String()+" ", domain.ValidationMethodManual)
	require.NoError(t, err)
	assert.Equal(t, domain.ValidationStatusValid, v.Status)
	assert.Equal(t, domain.ValidationMethodManual, v.Method)
}
