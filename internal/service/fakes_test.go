package service

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/google/uuid"
)

// fakeTx emulates row locks held until the transaction ends
type fakeTx struct{}

type txState struct {
	locks []*sync.Mutex
}

type txStateKey struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txStateKey{}).(*txState); ok {
		return fn(ctx)
	}
	st := &txState{}
	defer func() {
		for i := len(st.locks) - 1; i >= 0; i-- {
			st.locks[i].Unlock()
		}
	}()
	return fn(context.WithValue(ctx, txStateKey{}, st))
}

// memStore is an in-memory database shared by the fake repositories
type memStore struct {
	mu          sync.Mutex
	rowLocks    map[uuid.UUID]*sync.Mutex
	users       map[uuid.UUID]*domain.User
	events      map[uuid.UUID]*domain.Event
	types       map[uuid.UUID]*domain.TicketType
	tickets     map[uuid.UUID]*domain.Ticket
	qrCodes     map[uuid.UUID]*domain.QrCode
	validations []*domain.TicketValidation

	qrCreateErr   error
	qrCreateCalls int
	lastList      repository.TicketListParams

	// validCreateErr fails the next VALID insert once
	validCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		rowLocks: map[uuid.UUID]*sync.Mutex{},
		users:    map[uuid.UUID]*domain.User{},
		events:   map[uuid.UUID]*domain.Event{},
		types:    map[uuid.UUID]*domain.TicketType{},
		tickets:  map[uuid.UUID]*domain.Ticket{},
		qrCodes:  map[uuid.UUID]*domain.QrCode{},
	}
}

func (s *memStore) lockRow(ctx context.Context, id uuid.UUID) error {
	st, ok := ctx.Value(txStateKey{}).(*txState)
	if !ok {
		return errors.New("row lock requires a transaction")
	}
	s.mu.Lock()
	m, ok := s.rowLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	st.locks = append(st.locks, m)
	return nil
}

func (s *memStore) addUser() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &domain.User{ID: id, Name: "buyer", Email: id.String() + "@example.com"}
	return id
}

func (s *memStore) addEvent(e domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New()
	if e.Status == "" {
		e.Status = domain.EventStatusPublished
	}
	s.events[e.ID] = &e
	return &e
}

func (s *memStore) addTicketType(eventID uuid.UUID, totalAvailable *int) *domain.TicketType {
	s.mu.Lock()
	defer s.mu.Unlock()
	tt := &domain.TicketType{ID: uuid.New(), EventID: eventID, Name: "General", TotalAvailable: totalAvailable}
	s.types[tt.ID] = tt
	return tt
}

func (s *memStore) addTicket(typeID, purchaserID uuid.UUID, status domain.TicketStatus, createdAt time.Time) *domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.NewTicket(typeID, purchaserID, createdAt)
	t.Status = status
	s.tickets[t.ID] = t
	return t
}

func (s *memStore) addQrCode(ticketID uuid.UUID, status domain.QrCodeStatus) *domain.QrCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	qr := domain.NewQrCode(ticketID, time.Now())
	qr.Status = status
	s.qrCodes[qr.ID] = qr
	return qr
}

func (s *memStore) ticketStatus(id uuid.UUID) domain.TicketStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[id].Status
}

func (s *memStore) ticketCount(typeID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tickets {
		if t.TicketTypeID == typeID {
			n++
		}
	}
	return n
}

func (s *memStore) validationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.validations)
}

// joined returns a copy of the ticket with its type and event; s.mu must be held
func (s *memStore) joined(t *domain.Ticket) *domain.Ticket {
	cp := *t
	tt := *s.types[t.TicketTypeID]
	ev := *s.events[tt.EventID]
	tt.Event = &ev
	cp.TicketType = &tt
	return &cp
}

type fakeUsers struct{ *memStore }

func (r fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeEvents struct{ *memStore }

func (r fakeEvents) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r fakeEvents) CompleteEndedEvents(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.Status == domain.EventStatusPublished && e.End != nil && e.End.Before(now) {
			e.Status = domain.EventStatusCompleted
			n++
		}
	}
	return n, nil
}

type fakeTicketTypes struct{ *memStore }

func (r fakeTicketTypes) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return nil, domain.ErrTicketTypeNotFound
	}
	cp := *tt
	ev := *r.events[tt.EventID]
	cp.Event = &ev
	return &cp, nil
}

func (r fakeTicketTypes) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	if err := r.lockRow(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type fakeTickets struct{ *memStore }

func (r fakeTickets) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ticket
	cp.TicketType = nil
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r fakeTickets) CountByTicketType(ctx context.Context, ticketTypeID uuid.UUID) (int64, error) {
	r.mu.Lock()
	var n int64
	for _, t := range r.tickets {
		if t.TicketTypeID == ticketTypeID {
			n++
		}
	}
	r.mu.Unlock()
	// widen the window between count and insert
	runtime.Gosched()
	return n, nil
}

func (r fakeTickets) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return r.joined(t), nil
}

func (r fakeTickets) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	if err := r.lockRow(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r fakeTickets) GetByIDAndPurchaser(ctx context.Context, id, purchaserID uuid.UUID) (*domain.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.PurchaserID != purchaserID {
		return nil, domain.ErrTicketNotFound
	}
	return t, nil
}

func (r fakeTickets) ListByPurchaser(ctx context.Context, params repository.TicketListParams) ([]*domain.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = params

	var all []*domain.Ticket
	for _, t := range r.tickets {
		if t.PurchaserID == params.PurchaserID {
			all = append(all, r.joined(t))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if params.Offset >= len(all) {
		return []*domain.Ticket{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[params.Offset:end], total, nil
}

func (r fakeTickets) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.TicketStatus, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	t.UpdatedAt = now
	return true, nil
}

func (r fakeTickets) ExpireForEndedEvents(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		ev := r.events[r.types[t.TicketTypeID].EventID]
		if t.Status == domain.TicketStatusPurchased && ev.End != nil && ev.End.Before(now) {
			t.Status = domain.TicketStatusExpired
			t.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

type fakeQrCodes struct{ *memStore }

func (r fakeQrCodes) Create(ctx context.Context, qr *domain.QrCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.qrCreateCalls++
	if r.qrCreateErr != nil {
		return r.qrCreateErr
	}
	cp := *qr
	r.qrCodes[qr.ID] = &cp
	return nil
}

func (r fakeQrCodes) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.QrCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qr, ok := r.qrCodes[id]
	if !ok || qr.Status != domain.QrCodeStatusActive {
		return nil, domain.ErrQrCodeNotFound
	}
	cp := *qr
	return &cp, nil
}

func (r fakeQrCodes) GetActiveByTicketID(ctx context.Context, ticketID uuid.UUID) (*domain.QrCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, qr := range r.qrCodes {
		if qr.TicketID == ticketID && qr.Status == domain.QrCodeStatusActive {
			cp := *qr
			return &cp, nil
		}
	}
	return nil, domain.ErrQrCodeNotFound
}

func (r fakeQrCodes) activeForTicket(ticketID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, qr := range r.qrCodes {
		if qr.TicketID == ticketID && qr.Status == domain.QrCodeStatusActive {
			n++
		}
	}
	return n
}

type fakeValidations struct{ *memStore }

func (r fakeValidations) Create(ctx context.Context, v *domain.TicketValidation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.validCreateErr != nil && v.Status == domain.ValidationStatusValid {
		err := r.validCreateErr
		r.validCreateErr = nil
		return err
	}
	cp := *v
	r.validations = append(r.validations, &cp)
	return nil
}

func (r fakeValidations) ExistsValidForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.validations {
		if v.TicketID != nil && *v.TicketID == ticketID && v.Status == domain.ValidationStatusValid {
			return true, nil
		}
	}
	return false, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu         sync.Mutex
	purchased  []*domain.Ticket
	validated  []*domain.TicketValidation
	publishErr error
}

func (m *MockEventPublisher) PublishTicketPurchased(ctx context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.purchased = append(m.purchased, ticket)
	return nil
}

func (m *MockEventPublisher) PublishTicketValidated(ctx context.Context, v *domain.TicketValidation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.validated = append(m.validated, v)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }
