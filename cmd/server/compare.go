package main

import (
	"net/http"
	"strings"

	"github.com/siteoptz/siteoptz/internal/catalog"
)

var sortKeys = []catalog.SortKey{catalog.SortRating, catalog.SortName, catalog.SortPrice, catalog.SortFeatures}

type compareViewData struct {
	baseViewData
	Tools          []catalog.Tool
	Selected       []catalog.Tool
	SelectedIDs    []string
	Categories     []string
	CategoryCounts map[string]int
	SortKeys       []catalog.SortKey
	Category       string
	Search         string
	Sort           catalog.SortKey
	Descending     bool
	Cap            int
	ReturnTo       string
}

// parseQuery reads the table filters from the query string. Rating and feature
// counts default to descending, names and prices to ascending.
func parseQuery(r *http.Request) catalog.Query {
	q := r.URL.Query()
	key := catalog.ParseSortKey(q.Get("sort"))

	desc := key == catalog.SortRating || key == catalog.SortFeatures
	switch strings.ToLower(q.Get("order")) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	return catalog.Query{
		Category:   strings.TrimSpace(q.Get("category")),
		Search:     strings.TrimSpace(q.Get("q")),
		Sort:       key,
		Descending: desc,
	}
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	query := parseQuery(r)
	state := s.loadCompare(r.Context())

	view := compareViewData{
		baseViewData:   s.baseView(r),
		Tools:          s.catalog.Find(query),
		Categories:     s.catalog.Categories(),
		CategoryCounts: s.catalog.CategoryCounts(),
		SortKeys:       sortKeys,
		Category:       query.Category,
		Search:         query.Search,
		Sort:           query.Sort,
		Descending:     query.Descending,
		Cap:            state.Cap(),
		ReturnTo:       r.URL.RequestURI(),
	}
	for _, it := range state.Items() {
		view.Selected = append(view.Selected, it.Tool)
		view.SelectedIDs = append(view.SelectedIDs, it.Tool.ID)
	}

	s.renderTemplate(w, http.StatusOK, "compare.html", view)
}

func (s *server) handleCompareToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	state := s.loadCompare(ctx)
	toolID := strings.TrimSpace(r.FormValue("tool_id"))

	if err := state.Toggle(toolID); err != nil {
		s.flashError(ctx, selectionMessage(err, toolID))
	} else {
		s.saveCompare(ctx, state)
	}
	http.Redirect(w, r, compareReturnPath(r.FormValue("return_to")), http.StatusSeeOther)
}

func (s *server) handleCompareReset(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(r.Context(), compareKey)
	http.Redirect(w, r, "/compare", http.StatusSeeOther)
}

// compareReturnPath only allows redirects back to the comparison table.
func compareReturnPath(p string) string {
	if p == "/compare" || strings.HasPrefix(p, "/compare?") {
		return p
	}
	return "/compare"
}
