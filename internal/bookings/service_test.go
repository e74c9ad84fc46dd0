package bookings

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"cinebook/internal/auth"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/payments"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeMovieService struct {
	known map[uuid.UUID]bool
}

func (f *fakeMovieService) SetCacheService(cache.Service) {}

func (f *fakeMovieService) GetMovieByID(ctx context.Context, id uuid.UUID) (*movies.MovieResponse, error) {
	if f.known[id] {
		return &movies.MovieResponse{ID: id.String(), Title: "Test Movie"}, nil
	}
	return nil, movies.ErrMovieNotFound
}

func (f *fakeMovieService) AddMovie(ctx context.Context, req movies.CreateMovieRequest) (*movies.MovieResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMovieService) SearchMovies(ctx context.Context, query string) ([]movies.MovieResponse, error) {
	return nil, nil
}

func (f *fakeMovieService) ListMovies(ctx context.Context) ([]movies.MovieResponse, error) {
	return nil, nil
}

type fakeSeatLedger struct {
	mu       sync.Mutex
	occupied map[uuid.UUID]map[string]bool
}

func newFakeSeatLedger() *fakeSeatLedger {
	return &fakeSeatLedger{occupied: make(map[uuid.UUID]map[string]bool)}
}

func (f *fakeSeatLedger) taken(movieID uuid.UUID, labels []string) []string {
	var taken []string
	for _, label := range labels {
		if f.occupied[movieID][label] {
			taken = append(taken, label)
		}
	}
	sort.Strings(taken)
	return taken
}

func (f *fakeSeatLedger) OccupiedLabels(ctx context.Context, movieID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var labels []string
	for label := range f.occupied[movieID] {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (f *fakeSeatLedger) AreOccupied(ctx context.Context, movieID uuid.UUID, labels []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken(movieID, labels), nil
}

func (f *fakeSeatLedger) Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if taken := f.taken(movieID, labels); len(taken) > 0 {
		return &seats.SeatConflictError{MovieID: movieID.String(), Seats: taken}
	}
	if f.occupied[movieID] == nil {
		f.occupied[movieID] = make(map[string]bool)
	}
	for _, label := range labels {
		f.occupied[movieID][label] = true
	}
	return nil
}

// fakeBookingRepo commits through the same ledger the orchestrator
// pre-checks, so post-payment races can be staged by occupying seats
// between the pre-check and the commit.
type fakeBookingRepo struct {
	ledger   *fakeSeatLedger
	bookings []*Booking
	failWith error

	// occupyBeforeCommit stages a race: these seats are taken after the
	// advisory check but before the transaction runs.
	occupyBeforeCommit []string
}

func (f *fakeBookingRepo) CreateWithSeats(ctx context.Context, booking *Booking, payment *Payment, labels []string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if len(f.occupyBeforeCommit) > 0 {
		_ = f.ledger.Reserve(ctx, booking.MovieID, uuid.New(), f.occupyBeforeCommit)
		f.occupyBeforeCommit = nil
	}
	if err := f.ledger.Reserve(ctx, booking.MovieID, booking.ID, labels); err != nil {
		return err
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type spyGateway struct {
	charges   int
	declineAs error
	lastTxn   string
}

func (g *spyGateway) Charge(ctx context.Context, amount float64, payerInfo string) (*payments.Receipt, error) {
	g.charges++
	if g.declineAs != nil {
		return nil, g.declineAs
	}
	g.lastTxn = "CC-TEST"
	return &payments.Receipt{
		Method:        payments.MethodCreditCard,
		TransactionID: g.lastTxn,
		Amount:        amount,
		Success:       true,
	}, nil
}

func (g *spyGateway) LastTransactionID() string { return g.lastTxn }

type recordingPublisher struct {
	confirmed []*notifications.BookingConfirmedEvent
	refunds   []*notifications.RefundRequiredEvent
}

func (p *recordingPublisher) PublishBookingConfirmed(ctx context.Context, e *notifications.BookingConfirmedEvent) error {
	p.confirmed = append(p.confirmed, e)
	return nil
}

func (p *recordingPublisher) PublishRefundRequired(ctx context.Context, e *notifications.RefundRequiredEvent) error {
	p.refunds = append(p.refunds, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// recordingCache never serves hits; it only records which keys were dropped.
type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *recordingCache) Ping(ctx context.Context) error { return nil }

// --- harness ---

type harness struct {
	service   Service
	movieID   uuid.UUID
	session   *auth.Session
	ledger    *fakeSeatLedger
	repo      *fakeBookingRepo
	gateway   *spyGateway
	publisher *recordingPublisher
	seatCache *recordingCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	movieID := uuid.New()
	ledger := newFakeSeatLedger()
	repo := &fakeBookingRepo{ledger: ledger}
	gateway := &spyGateway{}
	publisher := &recordingPublisher{}
	seatCache := &recordingCache{}

	cfg := &config.Config{
		Payment: config.PaymentConfig{ChargeTimeout: time.Second},
		Pricing: config.PricingConfig{BasePrice: 10.0, ServiceFee: 1.5},
	}

	seatService := seats.NewService(ledger)
	seatService.SetCacheService(seatCache, 0)

	svc := NewService(
		repo,
		&fakeMovieService{known: map[uuid.UUID]bool{movieID: true}},
		seatService,
		func(method payments.Method) payments.Gateway { return gateway },
		publisher,
		cfg,
	)

	return &harness{
		service:   svc,
		movieID:   movieID,
		session:   &auth.Session{UserID: uuid.New(), Email: "alice@example.com", Role: "USER"},
		ledger:    ledger,
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		seatCache: seatCache,
	}
}

func (h *harness) request(seatLabels ...string) CreateBookingRequest {
	return CreateBookingRequest{
		MovieID:       h.movieID.String(),
		Seats:         seatLabels,
		PaymentMethod: "CREDIT_CARD",
		PayerInfo:     "4111111111111111,123",
	}
}

// --- tests ---

func TestCreateBookingHappyPath(t *testing.T) {
	h := newHarness(t)

	resp, err := h.service.CreateBooking(context.Background(), h.session, h.request("A1", "A2", "A3"))
	require.NoError(t, err)

	assert.Equal(t, 31.50, resp.TotalPrice)
	assert.Equal(t, []string{"A1", "A2", "A3"}, resp.Seats)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "CC-TEST", resp.Payment.TransactionID)
	assert.NotEmpty(t, resp.BookingRef)

	require.Len(t, h.publisher.confirmed, 1)
	assert.Equal(t, resp.BookingRef, h.publisher.confirmed[0].BookingRef)
	assert.Empty(t, h.publisher.refunds)

	occupied, _ := h.ledger.OccupiedLabels(context.Background(), h.movieID)
	assert.Equal(t, []string{"A1", "A2", "A3"}, occupied)
}

func TestCreateBookingInvalidatesOccupancyCache(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.CreateBooking(context.Background(), h.session, h.request("B1", "B2"))
	require.NoError(t, err)

	// The commit writes seat rows in its own transaction, so the cached
	// occupied-seat set must be dropped once the booking is confirmed
	key := constants.SeatOccupancyKey(h.movieID.String())
	assert.Contains(t, h.seatCache.deleted, key)
}

func TestCreateBookingGroupDiscount(t *testing.T) {
	h := newHarness(t)

	req := h.request("A1", "A2", "A3", "A4", "A5")
	req.Discounts = []string{"GROUP"}

	resp, err := h.service.CreateBooking(context.Background(), h.session, req)
	require.NoError(t, err)
	assert.Equal(t, 46.50, resp.TotalPrice)
}

func TestCreateBookingUnauthenticatedNeverChargesOrPrices(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.CreateBooking(context.Background(), nil, h.request("A1"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = h.service.CreateBooking(context.Background(), &auth.Session{}, h.request("A1"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Zero(t, h.gateway.charges, "gateway must never be invoked without a session")
	assert.Empty(t, h.repo.bookings)
}

func TestCreateBookingUnknownMovie(t *testing.T) {
	h := newHarness(t)

	req := h.request("A1")
	req.MovieID = uuid.New().String()

	_, err := h.service.CreateBooking(context.Background(), h.session, req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, h.gateway.charges)
}

func TestCreateBookingInvalidSeats(t *testing.T) {
	h := newHarness(t)

	for _, seatLabels := range [][]string{{"Z9"}, {"A1", "A1"}, {"A0"}} {
		_, err := h.service.CreateBooking(context.Background(), h.session, h.request(seatLabels...))
		assert.ErrorIs(t, err, ErrInvalidRequest, "seats %v", seatLabels)
	}
	assert.Zero(t, h.gateway.charges)
}

func TestCreateBookingUnknownExtra(t *testing.T) {
	h := newHarness(t)

	req := h.request("A1")
	req.Extras = []string{"JETPACK"}

	_, err := h.service.CreateBooking(context.Background(), h.session, req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, h.gateway.charges)
}

func TestCreateBookingSeatConflictBeforePayment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.CreateBooking(ctx, h.session, h.request("A1", "A2"))
	require.NoError(t, err)
	h.gateway.charges = 0

	_, err = h.service.CreateBooking(ctx, h.session, h.request("A1", "B3"))
	var conflict *seats.SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A1"}, conflict.Seats)
	assert.Zero(t, h.gateway.charges, "conflicting request must fail before any charge")

	// The losing attempt reserved nothing
	occupied, _ := h.ledger.OccupiedLabels(ctx, h.movieID)
	assert.NotContains(t, occupied, "B3")
}

func TestCreateBookingPaymentDeclined(t *testing.T) {
	h := newHarness(t)
	h.gateway.declineAs = errors.New("card reported stolen")

	_, err := h.service.CreateBooking(context.Background(), h.session, h.request("A1"))
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	// No storage mutation of any kind
	assert.Empty(t, h.repo.bookings)
	occupied, _ := h.ledger.OccupiedLabels(context.Background(), h.movieID)
	assert.Empty(t, occupied)
	assert.Empty(t, h.publisher.confirmed)
	assert.Empty(t, h.publisher.refunds)
}

func TestCreateBookingPostPaymentConflictRequiresRefund(t *testing.T) {
	h := newHarness(t)
	h.repo.occupyBeforeCommit = []string{"A1"}

	_, err := h.service.CreateBooking(context.Background(), h.session, h.request("A1"))
	var refund *RefundRequiredError
	require.True(t, errors.As(err, &refund))
	assert.Equal(t, "CC-TEST", refund.Receipt.TransactionID)

	var conflict *seats.SeatConflictError
	assert.True(t, errors.As(refund.Cause, &conflict))

	// Booking rolled back, reconciliation event published
	assert.Empty(t, h.repo.bookings)
	require.Len(t, h.publisher.refunds, 1)
	assert.Equal(t, "CC-TEST", h.publisher.refunds[0].TransactionID)
	assert.Empty(t, h.publisher.confirmed)
}

func TestCreateBookingPersistenceFailureAfterCapture(t *testing.T) {
	h := newHarness(t)
	h.repo.failWith = errors.New("connection reset by peer")

	_, err := h.service.CreateBooking(context.Background(), h.session, h.request("A1"))
	var refund *RefundRequiredError
	require.True(t, errors.As(err, &refund))
	require.Len(t, h.publisher.refunds, 1)
}

func TestCreateBookingRetryFailsAtValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.CreateBooking(ctx, h.session, h.request("C4"))
	require.NoError(t, err)

	// Identical retry conflicts with its own earlier success
	_, err = h.service.CreateBooking(ctx, h.session, h.request("C4"))
	var conflict *seats.SeatConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestGetBookingOwnership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.service.CreateBooking(ctx, h.session, h.request("A1"))
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	// Owner sees it
	got, err := h.service.GetBooking(ctx, h.session, bookingID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	// A stranger gets not-found, an admin gets through
	stranger := &auth.Session{UserID: uuid.New(), Role: "USER"}
	_, err = h.service.GetBooking(ctx, stranger, bookingID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	admin := &auth.Session{UserID: uuid.New(), Role: "ADMIN"}
	_, err = h.service.GetBooking(ctx, admin, bookingID)
	assert.NoError(t, err)
}

func TestGetUserBookings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.CreateBooking(ctx, h.session, h.request("A1"))
	require.NoError(t, err)
	_, err = h.service.CreateBooking(ctx, h.session, h.request("B1", "B2"))
	require.NoError(t, err)

	mine, err := h.service.GetUserBookings(ctx, h.session)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other := &auth.Session{UserID: uuid.New(), Role: "USER"}
	theirs, err := h.service.GetUserBookings(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
