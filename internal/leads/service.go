package leads

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/siteoptz/siteoptz/internal/apperr"
	"github.com/siteoptz/siteoptz/internal/telemetry"
)

// DefaultGuide is the guide sent when a download request names none.
const DefaultGuide = "ai-tools-comparison-guide-2025"

// Result is what a form submission reports back to the visitor.
type Result struct {
	Lead    Lead
	Message string
	// Duplicate is set when a subscribe request named an existing subscriber.
	Duplicate bool
}

// Service validates form submissions and records them as leads.
type Service struct {
	repo     Repository
	metrics  telemetry.Recorder
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, metrics telemetry.Recorder) *Service {
	if metrics == nil {
		metrics = telemetry.NewNoOp()
	}
	return &Service{
		repo:     repo,
		metrics:  metrics,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Subscribe adds the visitor to the newsletter. Subscribing an email twice
// succeeds without writing anything.
func (s *Service) Subscribe(ctx context.Context, req *SubscribeRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}
	source := sourceOr(req.Source, "newsletter")

	lead, err := s.newLead(KindSubscribe, req.Email, req.Name, req.Company, source, req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Subscribe(ctx, Subscriber{
		Email:     req.Email,
		Name:      lead.Name,
		Company:   lead.Company,
		Source:    source,
		Interests: req.Interests,
		CreatedAt: lead.CreatedAt,
	}, lead)
	if err != nil {
		return nil, apperr.Internal("failed to save subscription", err)
	}
	if !created {
		return &Result{Message: "You're already subscribed.", Duplicate: true}, nil
	}

	s.metrics.LeadCaptured(ctx, string(lead.Kind), lead.Source)
	return &Result{Lead: lead, Message: "Successfully subscribed!"}, nil
}

// PricingQuote records a calculator quote request.
func (s *Service) PricingQuote(ctx context.Context, req *PricingQuoteRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}
	lead, err := s.capture(ctx, KindPricingQuote, req.Email, "", "", sourceOr(req.Source, "calculator"), req)
	if err != nil {
		return nil, err
	}
	return &Result{Lead: lead, Message: "Quote sent successfully!"}, nil
}

// Consultation records an expert-consultation request.
func (s *Service) Consultation(ctx context.Context, req *ConsultationRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	lead, err := s.capture(ctx, KindExpertConsultation, req.Email, name, req.Company, "expert-consultation", req)
	if err != nil {
		return nil, err
	}
	return &Result{Lead: lead, Message: "Consultation request submitted successfully! Our experts will contact you within 24 hours."}, nil
}

// GuideDownload records a guide request. The caller issues the download link.
func (s *Service) GuideDownload(ctx context.Context, req *GuideRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if strings.TrimSpace(req.Guide) == "" {
		req.Guide = DefaultGuide
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	lead, err := s.capture(ctx, KindGuideDownload, req.Email, name, req.Company, req.Guide, req)
	if err != nil {
		return nil, err
	}
	return &Result{Lead: lead, Message: "Guide sent successfully"}, nil
}

// Webinar records a webinar or podcast registration.
func (s *Service) Webinar(ctx context.Context, req *WebinarRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}
	lead, err := s.capture(ctx, KindWebinarRegistration, req.Email, req.Name, req.Company, req.Webinar, req)
	if err != nil {
		return nil, err
	}
	return &Result{Lead: lead, Message: "You're registered! Check your inbox for the details."}, nil
}

// JobApplication records a careers application.
func (s *Service) JobApplication(ctx context.Context, req *JobApplicationRequest) (*Result, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.check(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	lead, err := s.capture(ctx, KindJobApplication, req.Email, name, "", req.PositionTitle, req)
	if err != nil {
		return nil, err
	}
	return &Result{Lead: lead, Message: "Application submitted successfully"}, nil
}

// List returns stored leads for the admin view.
func (s *Service) List(ctx context.Context, f Filter) ([]Lead, error) {
	leads, err := s.repo.ListLeads(ctx, f)
	if err != nil {
		return nil, apperr.Internal("failed to load leads", err)
	}
	return leads, nil
}

// Counts returns the number of stored leads per kind.
func (s *Service) Counts(ctx context.Context) (map[Kind]int, error) {
	counts, err := s.repo.CountByKind(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count leads", err)
	}
	return counts, nil
}

func (s *Service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return apperr.BadRequest(validationMessage(err))
	}
	return nil
}

func (s *Service) capture(ctx context.Context, kind Kind, email, name, company, source string, form any) (Lead, error) {
	lead, err := s.newLead(kind, email, name, company, source, form)
	if err != nil {
		return Lead{}, err
	}
	if err := s.repo.SaveLead(ctx, lead); err != nil {
		return Lead{}, apperr.Internal("failed to save submission", err)
	}

	s.metrics.LeadCaptured(ctx, string(kind), source)
	return lead, nil
}

func (s *Service) newLead(kind Kind, email, name, company, source string, form any) (Lead, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return Lead{}, apperr.Internal("failed to encode submission", err)
	}

	return Lead{
		ID:        uuid.New().String(),
		Kind:      kind,
		Email:     email,
		Name:      strings.TrimSpace(name),
		Company:   strings.TrimSpace(company),
		Source:    source,
		Payload:   payload,
		CreatedAt: s.now(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sourceOr(source, fallback string) string {
	if s := strings.TrimSpace(source); s != "" {
		return s
	}
	return fallback
}
