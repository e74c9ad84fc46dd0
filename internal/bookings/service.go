package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/auth"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/payments"
	"cinebook/internal/pricing"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateBooking(ctx context.Context, session *auth.Session, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, session *auth.Session, id uuid.UUID) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, session *auth.Session) ([]BookingResponse, error)
}

type service struct {
	repo           Repository
	movieService   movies.Service
	seatService    seats.Service
	gatewayFactory payments.Factory
	publisher      notifications.Publisher
	cfg            *config.Config
	log            *logger.Logger
}

func NewService(
	repo Repository,
	movieService movies.Service,
	seatService seats.Service,
	gatewayFactory payments.Factory,
	publisher notifications.Publisher,
	cfg *config.Config,
) Service {
	return &service{
		repo:           repo,
		movieService:   movieService,
		seatService:    seatService,
		gatewayFactory: gatewayFactory,
		publisher:      publisher,
		cfg:            cfg,
		log:            logger.GetDefault(),
	}
}

// CreateBooking drives one booking attempt through its lifecycle. Money
// moves only in the Paying step and storage only in Committing, so every
// failure before Committing leaves nothing behind.
func (s *service) CreateBooking(ctx context.Context, session *auth.Session, req CreateBookingRequest) (*BookingResponse, error) {
	state := StateIdle

	// Authentication comes first; the price engine and gateway are never
	// reached without a session.
	state = StateValidating
	if !session.Authenticated() {
		s.log.LogBookingAborted(ctx, req.MovieID, "", string(StateAborted), string(state), "not authenticated")
		return nil, ErrNotAuthenticated
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, s.abort(ctx, session, req.MovieID, state, fmt.Errorf("%w: invalid movie id", ErrInvalidRequest))
	}
	if _, err := s.movieService.GetMovieByID(ctx, movieID); err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			return nil, s.abort(ctx, session, req.MovieID, state, fmt.Errorf("%w: unknown movie %s", ErrInvalidRequest, movieID))
		}
		return nil, s.abort(ctx, session, req.MovieID, state, fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}
	if err := s.seatService.ValidateLabels(req.Seats); err != nil {
		return nil, s.abort(ctx, session, req.MovieID, state, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	// Advisory conflict check so obviously taken seats fail before any
	// charge. The commit re-checks under lock.
	if err := s.seatService.CheckAvailability(ctx, movieID, req.Seats); err != nil {
		var conflict *seats.SeatConflictError
		if errors.As(err, &conflict) {
			s.log.LogBookingAborted(ctx, req.MovieID, session.UserID.String(), string(StateAborted), string(state), "seat conflict")
			return nil, conflict
		}
		return nil, s.abort(ctx, session, req.MovieID, state, fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}

	state = StatePricing
	priceCtx, err := s.buildPricingContext(req)
	if err != nil {
		return nil, s.abort(ctx, session, req.MovieID, state, err)
	}
	total := pricing.Total(priceCtx)

	// From here on the attempt must not be torn down by the caller
	// hanging up: a cancelled commit after a captured charge would strand
	// the money. The charge itself still runs under its own timeout.
	attemptCtx := context.WithoutCancel(ctx)

	state = StatePaying
	receipt, err := s.charge(attemptCtx, req, total)
	if err != nil {
		return nil, s.abort(ctx, session, req.MovieID, state, err)
	}

	state = StateCommitting
	booking := &Booking{
		UserID:     session.UserID,
		MovieID:    movieID,
		Seats:      JoinSeats(req.Seats),
		SeatCount:  len(req.Seats),
		TotalPrice: total,
		Status:     string(StateConfirmed),
		BookingRef: newBookingRef(),
	}
	now := time.Now()
	payment := &Payment{
		Amount:        total,
		Currency:      "USD",
		Status:        "COMPLETED",
		PaymentMethod: string(receipt.Method),
		TransactionID: receipt.TransactionID,
		ProcessedAt:   &now,
	}

	if err := s.repo.CreateWithSeats(attemptCtx, booking, payment, req.Seats); err != nil {
		// The charge is already captured; whatever went wrong here
		// needs a refund, not a retry.
		refundErr := &RefundRequiredError{Receipt: receipt, Cause: err}
		s.log.LogRefundRequired(ctx, receipt.TransactionID, req.MovieID, session.UserID.String(), err.Error(), total)
		s.publishRefundRequired(ctx, session, req, receipt, err)
		return nil, refundErr
	}

	state = StateConfirmed
	// The commit wrote seat rows behind the ledger service's back, so the
	// cached occupancy for this movie is now stale.
	s.seatService.InvalidateOccupancy(attemptCtx, movieID)
	s.log.LogBookingConfirmed(ctx, booking.ID.String(), req.MovieID, session.UserID.String(), total)
	s.publishBookingConfirmed(ctx, session, booking, receipt)

	return booking.ToResponse(receipt), nil
}

func (s *service) GetBooking(ctx context.Context, session *auth.Session, id uuid.UUID) (*BookingResponse, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Admins can inspect any booking, users only their own
	if booking.UserID != session.UserID && session.Role != "ADMIN" {
		return nil, ErrBookingNotFound
	}
	return booking.ToResponse(receiptFromPayments(booking)), nil
}

func (s *service) GetUserBookings(ctx context.Context, session *auth.Session) ([]BookingResponse, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	rows, err := s.repo.GetByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	responses := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, *rows[i].ToResponse(receiptFromPayments(&rows[i])))
	}
	return responses, nil
}

func (s *service) buildPricingContext(req CreateBookingRequest) (pricing.Context, error) {
	priceCtx := pricing.Context{
		BasePrice:         s.cfg.Pricing.BasePrice,
		SeatCount:         len(req.Seats),
		ServiceFee:        s.cfg.Pricing.ServiceFee,
		TaxRate:           s.cfg.Pricing.TaxRate,
		TheaterMultiplier: 1.0,
	}
	priceCtx.SetTheater(pricing.ParseTheaterType(req.TheaterType))

	// Discounts overwrite each other in request order
	for _, tag := range req.Discounts {
		switch strings.ToUpper(strings.TrimSpace(tag)) {
		case "STUDENT":
			priceCtx.ApplyStudentDiscount()
		case "SENIOR":
			priceCtx.ApplySeniorDiscount()
		case "WEEKDAY":
			priceCtx.ApplyWeekdayDiscount()
		case "GROUP":
			priceCtx.ApplyGroupDiscount(len(req.Seats))
		default:
			return pricing.Context{}, fmt.Errorf("%w: unknown discount %q", ErrInvalidRequest, tag)
		}
	}

	for _, tag := range req.Extras {
		extra, ok := pricing.ParseExtra(tag)
		if !ok {
			return pricing.Context{}, fmt.Errorf("%w: unknown extra %q", ErrInvalidRequest, tag)
		}
		priceCtx.AddExtra(extra)
	}
	return priceCtx, nil
}

// charge runs the gateway call under the configured timeout. Any error,
// timeout or unsuccessful receipt is a decline; the commit never runs
// without a confirmed charge.
func (s *service) charge(ctx context.Context, req CreateBookingRequest, total float64) (*payments.Receipt, error) {
	method := payments.ParseMethod(req.PaymentMethod)
	gateway := s.gatewayFactory(method)

	chargeCtx, cancel := context.WithTimeout(ctx, s.cfg.Payment.ChargeTimeout)
	defer cancel()

	receipt, err := gateway.Charge(chargeCtx, total, req.PayerInfo)
	if err != nil {
		s.log.LogPaymentProcessed(ctx, string(method), gateway.LastTransactionID(), total, false)
		return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}
	if !receipt.Success {
		s.log.LogPaymentProcessed(ctx, string(method), receipt.TransactionID, total, false)
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, receipt.StatusMessage)
	}

	s.log.LogPaymentProcessed(ctx, string(method), receipt.TransactionID, total, true)
	return receipt, nil
}

func (s *service) abort(ctx context.Context, session *auth.Session, movieID string, failedIn State, err error) error {
	userID := ""
	if session != nil {
		userID = session.UserID.String()
	}
	s.log.LogBookingAborted(ctx, movieID, userID, string(StateAborted), string(failedIn), err.Error())
	return err
}

func (s *service) publishBookingConfirmed(ctx context.Context, session *auth.Session, booking *Booking, receipt *payments.Receipt) {
	event := &notifications.BookingConfirmedEvent{
		BookingID:     booking.ID.String(),
		BookingRef:    booking.BookingRef,
		UserID:        session.UserID.String(),
		MovieID:       booking.MovieID.String(),
		Seats:         booking.SeatLabels(),
		TotalPrice:    booking.TotalPrice,
		TransactionID: receipt.TransactionID,
		ConfirmedAt:   time.Now(),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
		s.log.Warn("failed to publish booking event", "booking_ref", booking.BookingRef, "error", err)
	}
}

func (s *service) publishRefundRequired(ctx context.Context, session *auth.Session, req CreateBookingRequest, receipt *payments.Receipt, cause error) {
	event := &notifications.RefundRequiredEvent{
		TransactionID: receipt.TransactionID,
		PaymentMethod: string(receipt.Method),
		Amount:        receipt.Amount,
		UserID:        session.UserID.String(),
		MovieID:       req.MovieID,
		Seats:         req.Seats,
		Cause:         cause.Error(),
		OccurredAt:    time.Now(),
	}
	if err := s.publisher.PublishRefundRequired(ctx, event); err != nil {
		s.log.Error("failed to publish reconciliation event",
			"transaction_id", receipt.TransactionID, "error", err)
	}
}

func newBookingRef() string {
	return "BKG-" + strings.ToUpper(uuid.New().String()[:8])
}

func receiptFromPayments(b *Booking) *payments.Receipt {
	if len(b.Payments) == 0 {
		return nil
	}
	p := b.Payments[0]
	return &payments.Receipt{
		Method:        payments.Method(p.PaymentMethod),
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Success:       p.Status == "COMPLETED",
		StatusMessage: p.Status,
	}
}
