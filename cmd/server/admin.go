package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/siteoptz/siteoptz/internal/leads"
	"github.com/siteoptz/siteoptz/internal/migrations"
	"github.com/siteoptz/siteoptz/internal/respond"
	schema "github.com/siteoptz/siteoptz/migrations"
)

const adminLeadLimit = 200

type adminLeadsViewData struct {
	baseViewData
	Leads  []leads.Lead
	Kinds  []leads.Kind
	Counts map[leads.Kind]int
	Kind   leads.Kind
	Query  string
}

func (s *server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := leads.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	list, err := s.leads.List(ctx, leads.Filter{Kind: kind, Search: query, Limit: adminLeadLimit})
	if err != nil {
		log.Printf("list leads: %v", err)
		http.Error(w, "failed to load leads", http.StatusInternalServerError)
		return
	}
	counts, err := s.leads.Counts(ctx)
	if err != nil {
		log.Printf("count leads: %v", err)
		http.Error(w, "failed to load leads", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, http.StatusOK, "admin_leads.html", adminLeadsViewData{
		baseViewData: s.baseView(r),
		Leads:        list,
		Kinds:        leads.Kinds,
		Counts:       counts,
		Kind:         kind,
		Query:        query,
	})
}

type healthResponse struct {
	Status        string `json:"status"`
	Tools         int    `json:"tools"`
	SchemaVersion int64  `json:"schemaVersion"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	v, err := migrations.Version(r.Context(), s.db, schema.FS)
	if err != nil {
		log.Printf("health: %v", err)
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Tools: s.catalog.Len()})
		return
	}
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Tools: s.catalog.Len(), SchemaVersion: v})
}
