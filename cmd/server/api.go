package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/siteoptz/siteoptz/internal/apperr"
	"github.com/siteoptz/siteoptz/internal/catalog"
	"github.com/siteoptz/siteoptz/internal/pricing"
	"github.com/siteoptz/siteoptz/internal/respond"
	"github.com/siteoptz/siteoptz/internal/selection"
)

type toolsResponse struct {
	Tools      []catalog.Tool `json:"tools"`
	Categories []string       `json:"categories"`
	Count      int            `json:"count"`
}

type projectRequest struct {
	Tools        []projectTool `json:"tools"`
	TeamSize     *int          `json:"teamSize"`
	BillingCycle string        `json:"billingCycle"`
}

type projectTool struct {
	ID    string `json:"id"`
	Plan  string `json:"plan"`
	Usage *int   `json:"usage"`
}

type projectionLine struct {
	ToolID        string   `json:"toolId"`
	ToolName      string   `json:"toolName"`
	Plan          string   `json:"plan"`
	Usage         int      `json:"usage"`
	PricePerMonth *float64 `json:"pricePerMonth"`
	Cost          float64  `json:"cost"`
	CostDisplay   string   `json:"costDisplay"`
	Custom        bool     `json:"custom,omitempty"`
}

type projectionResponse struct {
	TeamSize            int                `json:"teamSize"`
	BillingCycle        pricing.Cycle      `json:"billingCycle"`
	Lines               []projectionLine   `json:"lines"`
	PerTool             map[string]float64 `json:"perTool"`
	Total               float64            `json:"total"`
	TotalDisplay        string             `json:"totalDisplay"`
	MonthlyTotal        float64            `json:"monthlyTotal"`
	MonthlyTotalDisplay string             `json:"monthlyTotalDisplay"`
	Savings             float64            `json:"savings"`
	SavingsDisplay      string             `json:"savingsDisplay"`
	ContactSales        []string           `json:"contactSales"`
}

func (s *server) handleAPITools(w http.ResponseWriter, r *http.Request) {
	tools := s.catalog.Find(parseQuery(r))
	respond.JSON(w, http.StatusOK, toolsResponse{
		Tools:      tools,
		Categories: s.catalog.Categories(),
		Count:      len(tools),
	})
}

func (s *server) handleAPITool(w http.ResponseWriter, r *http.Request) {
	tool, ok := s.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, apperr.NotFound("tool not found"))
		return
	}
	respond.JSON(w, http.StatusOK, tool)
}

// handleAPIProject projects an explicit selection without touching the
// session.
func (s *server) handleAPIProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	state := selection.New(s.catalog, selection.CalculatorCap)
	for _, t := range req.Tools {
		id := strings.TrimSpace(t.ID)
		if err := state.Add(id); err != nil {
			respond.Error(w, projectError(err, id))
			return
		}
		if t.Plan != "" {
			tool, _ := s.catalog.Get(id)
			if _, ok := tool.Plan(t.Plan); !ok {
				respond.Error(w, apperr.BadRequest("unknown plan "+t.Plan+" for "+id))
				return
			}
			state.SetPlan(id, t.Plan)
		}
		if t.Usage != nil {
			state.SetUsage(id, *t.Usage)
		}
	}

	params := pricing.DefaultParams()
	if req.TeamSize != nil {
		params.TeamSize = *req.TeamSize
	}
	if req.BillingCycle != "" {
		params.Cycle = pricing.ParseCycle(req.BillingCycle)
	}

	proj := pricing.Project(state.Items(), params)
	s.metrics.ProjectionComputed(r.Context(), len(proj.Lines), string(proj.Params.Cycle), proj.Total.InexactFloat64())
	respond.JSON(w, http.StatusOK, projectionJSON(proj))
}

func projectError(err error, id string) error {
	switch {
	case errors.Is(err, selection.ErrCapacity):
		return apperr.Conflict(err.Error())
	case errors.Is(err, selection.ErrAlreadySelected):
		return apperr.BadRequest("duplicate tool: " + id)
	case errors.Is(err, selection.ErrUnknownTool):
		return apperr.BadRequest("unknown tool: " + id)
	default:
		return err
	}
}

func projectionJSON(proj pricing.Projection) projectionResponse {
	out := projectionResponse{
		TeamSize:            proj.Params.TeamSize,
		BillingCycle:        proj.Params.Cycle,
		Lines:               make([]projectionLine, 0, len(proj.Lines)),
		PerTool:             make(map[string]float64, len(proj.PerTool)),
		Total:               money(proj.Total),
		TotalDisplay:        pricing.FormatMoney(proj.Total),
		MonthlyTotal:        money(proj.MonthlyTotal),
		MonthlyTotalDisplay: pricing.FormatMoney(proj.MonthlyTotal),
		Savings:             money(proj.Savings),
		SavingsDisplay:      pricing.FormatMoney(proj.Savings),
		ContactSales:        proj.ContactSales,
	}
	if out.ContactSales == nil {
		out.ContactSales = []string{}
	}

	for _, l := range proj.Lines {
		line := projectionLine{
			ToolID:      l.ToolID,
			ToolName:    l.ToolName,
			Plan:        l.Plan,
			Usage:       l.Usage,
			Cost:        money(l.Cost),
			CostDisplay: pricing.FormatMoney(l.Cost),
			Custom:      l.Custom,
		}
		if l.Custom {
			line.CostDisplay = "Contact sales"
		} else {
			base := money(l.Base)
			line.PricePerMonth = &base
		}
		out.Lines = append(out.Lines, line)
	}
	for id, cost := range proj.PerTool {
		out.PerTool[id] = money(cost)
	}
	return out
}

// money rounds to cents for JSON output.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
