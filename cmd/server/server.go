package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/siteoptz/siteoptz/internal/catalog"
	"github.com/siteoptz/siteoptz/internal/checkout"
	"github.com/siteoptz/siteoptz/internal/config"
	"github.com/siteoptz/siteoptz/internal/downloads"
	"github.com/siteoptz/siteoptz/internal/leads"
	"github.com/siteoptz/siteoptz/internal/middleware"
	"github.com/siteoptz/siteoptz/internal/respond"
	"github.com/siteoptz/siteoptz/internal/telemetry"
	"github.com/siteoptz/siteoptz/web"
)

type server struct {
	cfg       config.Config
	db        *sql.DB
	catalog   *catalog.Catalog
	sessions  *scs.SessionManager
	auth      *authService
	leads     *leads.Service
	checkout  *checkout.Service
	signer    *downloads.Signer
	guides    *downloads.Library
	metrics   telemetry.Recorder
	limiter   *middleware.RateLimiter
	templates map[string]*template.Template
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
	Admin          bool
}

type homeViewData struct {
	baseViewData
	ToolCount int
	Plans     []checkout.Plan
}

func newServer(cfg config.Config, database *sql.DB, c *catalog.Catalog, sessions *scs.SessionManager, metrics telemetry.Recorder) (*server, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gateway, err := newGateway(cfg.CheckoutLinks)
	if err != nil {
		return nil, err
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Print("warning: SESSION_SECRET is empty; download links will not survive a restart")
	}

	return &server{
		cfg:       cfg,
		db:        database,
		catalog:   c,
		sessions:  sessions,
		auth:      newAuthService(database),
		leads:     leads.NewService(leads.NewSQLRepository(database), metrics),
		checkout:  checkout.NewService(database, gateway, metrics),
		signer:    downloads.NewSigner(secret, cfg.DownloadTTL),
		guides:    downloads.NewLibrary(database, cfg.GuidesDir),
		metrics:   metrics,
		limiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).TrustProxy(cfg.TrustProxy),
		templates: templates,
	}, nil
}

func newGateway(links string) (checkout.Gateway, error) {
	if links == "" {
		log.Print("warning: CHECKOUT_LINKS is not set, using mock checkout")
		return checkout.NewMockGateway(), nil
	}
	parsed, err := checkout.ParseLinks(links)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_LINKS: %w", err)
	}
	gateway, err := checkout.NewLinkGateway(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_LINKS: %w", err)
	}
	return gateway, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)

	r.Handle("/static/*", web.Static())
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.LoadAndSave)

		r.Get("/", s.handleHome)
		r.Get("/calculator", s.handleCalculator)
		r.Post("/calculator/tools", s.handleCalculatorAdd)
		r.Post("/calculator/tools/{id}/remove", s.handleCalculatorRemove)
		r.Post("/calculator/tools/{id}/plan", s.handleCalculatorPlan)
		r.Post("/calculator/tools/{id}/usage", s.handleCalculatorUsage)
		r.Post("/calculator/settings", s.handleCalculatorSettings)
		r.Post("/calculator/reset", s.handleCalculatorReset)

		r.Get("/compare", s.handleCompare)
		r.Post("/compare/toggle", s.handleCompareToggle)
		r.Post("/compare/reset", s.handleCompareReset)

		r.With(s.limiter.Middleware).Post("/checkout", s.handleCheckoutForm)

		r.Get("/login", s.handleLoginForm)
		r.With(s.limiter.Middleware).Post("/login", s.handleLoginSubmit)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAdmin).Get("/admin/leads", s.handleAdminLeads)
	})

	r.Get("/downloads/{token}", s.handleDownload)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.MethodNotAllowed(respond.MethodNotAllowed)

		r.Get("/tools", s.handleAPITools)
		r.Get("/tools/{id}", s.handleAPITool)
		r.Post("/calculator/project", s.handleAPIProject)
		r.Get("/checkout/{orderID}", s.handleAPICheckoutStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Post("/subscribe", leadHandler(s.leads.Subscribe))
			r.Post("/pricing-quote", leadHandler(s.leads.PricingQuote))
			r.Post("/expert-consultation", leadHandler(s.leads.Consultation))
			r.Post("/webinar-registration", leadHandler(s.leads.Webinar))
			r.Post("/job-application", leadHandler(s.leads.JobApplication))
			r.Post("/download-guide", s.handleDownloadGuide)
			r.Post("/checkout", s.handleAPICheckout)
		})
	})

	return r
}

func (s *server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) > 0 {
		return s.cfg.CORSOrigins
	}
	if s.cfg.SiteURL != "" {
		return []string{s.cfg.SiteURL}
	}
	return []string{"*"}
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "home.html", homeViewData{
		baseViewData: s.baseView(r),
		ToolCount:    s.catalog.Len(),
		Plans:        checkout.Plans(),
	})
}

// baseView pops the pending flash messages of the session.
func (s *server) baseView(r *http.Request) baseViewData {
	ctx := r.Context()
	return baseViewData{
		ErrorMessage:   s.sessions.PopString(ctx, flashErrorKey),
		SuccessMessage: s.sessions.PopString(ctx, flashSuccessKey),
		Admin:          s.sessions.GetString(ctx, adminKey) != "",
	}
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		log.Printf("template %s not found", page)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("render %s: %v", page, err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
