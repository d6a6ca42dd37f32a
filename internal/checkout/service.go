package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/siteoptz/siteoptz/internal/apperr"
	"github.com/siteoptz/siteoptz/internal/pricing"
	"github.com/siteoptz/siteoptz/internal/telemetry"
)

const (
	StatusPending = "pending"
	timeLayout    = "2006-01-02T15:04:05.000000000Z"
)

// StartRequest is the body of POST /api/checkout.
type StartRequest struct {
	Plan         string `json:"plan" validate:"required,oneof=starter pro enterprise"`
	BillingCycle string `json:"billingCycle" validate:"omitempty,oneof=monthly annual"`
	Email        string `json:"email" validate:"required,email,max=254"`
}

// Session records a checkout hand-off.
type Session struct {
	OrderID     string        `json:"orderId"`
	Plan        string        `json:"plan"`
	Cycle       pricing.Cycle `json:"billingCycle"`
	Email       string        `json:"email"`
	AmountCents int64         `json:"amountCents"`
	URL         string        `json:"url"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Service starts checkouts and remembers them.
type Service struct {
	db       *sql.DB
	gateway  Gateway
	metrics  telemetry.Recorder
	validate *validator.Validate
	now      func() time.Time
}

func NewService(db *sql.DB, gateway Gateway, metrics telemetry.Recorder) *Service {
	if metrics == nil {
		metrics = telemetry.NewNoOp()
	}
	return &Service{
		db:       db,
		gateway:  gateway,
		metrics:  metrics,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Start creates an order id, asks the gateway for a payment URL and stores
// the pending session.
func (s *Service) Start(ctx context.Context, req *StartRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Plan = strings.ToLower(strings.TrimSpace(req.Plan))
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.BadRequest("invalid checkout request")
	}

	plan, ok := GetPlan(req.Plan)
	if !ok {
		return nil, apperr.BadRequest("invalid plan")
	}
	cycle := pricing.ParseCycle(req.BillingCycle)

	orderID := uuid.New().String()
	link, err := s.gateway.CreatePaymentLink(plan, cycle, req.Email, orderID)
	if err != nil {
		return nil, apperr.Internal("failed to create payment link", err)
	}

	sess := &Session{
		OrderID:     orderID,
		Plan:        plan.ID,
		Cycle:       cycle,
		Email:       req.Email,
		AmountCents: plan.Amount(cycle),
		URL:         link,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (order_id, plan, billing_cycle, email, amount_cents, redirect_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.OrderID, sess.Plan, string(sess.Cycle), sess.Email, sess.AmountCents, sess.URL, sess.Status, sess.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return nil, apperr.Internal("failed to save checkout session", fmt.Errorf("insert checkout session: %w", err))
	}

	s.metrics.CheckoutStarted(ctx, plan.ID, string(cycle))
	return sess, nil
}

// Get loads a stored session by order id.
func (s *Service) Get(ctx context.Context, orderID string) (*Session, error) {
	var (
		sess      Session
		cycle     string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT order_id, plan, billing_cycle, email, amount_cents, redirect_url, status, created_at
		FROM checkout_sessions
		WHERE order_id = ?
	`, orderID).Scan(&sess.OrderID, &sess.Plan, &cycle, &sess.Email, &sess.AmountCents, &sess.URL, &sess.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("checkout session not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load checkout session", fmt.Errorf("query checkout session: %w", err))
	}
	sess.Cycle = pricing.Cycle(cycle)
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		sess.CreatedAt = t
	}
	return &sess, nil
}
