package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/siteoptz/siteoptz/internal/catalog"
	"github.com/siteoptz/siteoptz/internal/pricing"
	"github.com/siteoptz/siteoptz/internal/selection"
)

type calculatorLine struct {
	ToolID   string
	ToolName string
	Plan     string
	Plans    []catalog.Plan
	Usage    int
	Cost     string
	Custom   bool
}

type calculatorViewData struct {
	baseViewData
	Available    []catalog.Tool
	Lines        []calculatorLine
	TeamSize     int
	MaxTeamSize  int
	Annual       bool
	Period       string
	Total        string
	MonthlyTotal string
	Savings      string
	ContactSales []string
	Full         bool
	Cap          int
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, params := s.loadCalculator(ctx)
	items := state.Items()
	proj := pricing.Project(items, params)

	if len(items) > 0 {
		s.metrics.ProjectionComputed(ctx, len(items), string(params.Cycle), proj.Total.InexactFloat64())
	}

	view := calculatorViewData{
		baseViewData: s.baseView(r),
		Lines:        make([]calculatorLine, 0, len(items)),
		TeamSize:     params.TeamSize,
		MaxTeamSize:  pricing.MaxTeamSize,
		Annual:       params.Cycle == pricing.Annual,
		Period:       params.Cycle.PeriodLabel(),
		Total:        pricing.FormatMoney(proj.Total),
		MonthlyTotal: pricing.FormatMoney(proj.MonthlyTotal),
		Savings:      pricing.FormatMoney(proj.Savings),
		ContactSales: proj.ContactSales,
		Full:         state.Full(),
		Cap:          state.Cap(),
	}

	for i, line := range proj.Lines {
		view.Lines = append(view.Lines, calculatorLine{
			ToolID:   line.ToolID,
			ToolName: line.ToolName,
			Plan:     line.Plan,
			Plans:    items[i].Tool.Plans,
			Usage:    line.Usage,
			Cost:     pricing.FormatMoney(line.Cost),
			Custom:   line.Custom,
		})
	}

	for _, t := range s.catalog.List() {
		if !state.Contains(t.ID) {
			view.Available = append(view.Available, t)
		}
	}

	s.renderTemplate(w, http.StatusOK, "calculator.html", view)
}

func (s *server) handleCalculatorAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	state, params := s.loadCalculator(ctx)
	toolID := strings.TrimSpace(r.FormValue("tool_id"))

	if err := state.Add(toolID); err != nil {
		s.flashError(ctx, selectionMessage(err, toolID))
	} else {
		s.saveCalculator(ctx, state, params)
	}
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleCalculatorRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, params := s.loadCalculator(ctx)
	state.Remove(chi.URLParam(r, "id"))
	s.saveCalculator(ctx, state, params)
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleCalculatorPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	state, params := s.loadCalculator(ctx)
	state.SetPlan(chi.URLParam(r, "id"), r.FormValue("plan"))
	s.saveCalculator(ctx, state, params)
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleCalculatorUsage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	usage, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(r.FormValue("usage")), "%"))
	if err != nil {
		s.flashError(ctx, "Usage must be a whole percentage.")
		http.Redirect(w, r, "/calculator", http.StatusSeeOther)
		return
	}

	state, params := s.loadCalculator(ctx)
	state.SetUsage(chi.URLParam(r, "id"), usage)
	s.saveCalculator(ctx, state, params)
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleCalculatorSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	state, params := s.loadCalculator(ctx)

	if raw := strings.TrimSpace(r.FormValue("team_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			s.flashError(ctx, "Team size must be a whole number.")
			http.Redirect(w, r, "/calculator", http.StatusSeeOther)
			return
		}
		params.TeamSize = clampTeamSize(size)
	}
	if raw := r.FormValue("billing_cycle"); raw != "" {
		params.Cycle = pricing.ParseCycle(raw)
	}

	s.saveCalculator(ctx, state, params)
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleCalculatorReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.sessions.Remove(ctx, calculatorKey)
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func clampTeamSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > pricing.MaxTeamSize {
		return pricing.MaxTeamSize
	}
	return n
}

// selectionMessage turns a selection error into the warning shown to the
// visitor.
func selectionMessage(err error, toolID string) string {
	switch {
	case errors.Is(err, selection.ErrCapacity):
		return err.Error()
	case errors.Is(err, selection.ErrAlreadySelected):
		return "That tool is already selected."
	case errors.Is(err, selection.ErrUnknownTool):
		if toolID == "" {
			return "Choose a tool to add."
		}
		return "We don't have pricing for that tool."
	default:
		return "Something went wrong. Please try again."
	}
}
