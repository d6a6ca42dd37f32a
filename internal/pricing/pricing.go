package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/siteoptz/siteoptz/internal/selection"
)

// Cycle is the billing cadence a projection is computed for.
type Cycle string

const (
	Monthly Cycle = "monthly"
	Annual  Cycle = "annual"
)

const (
	DefaultTeamSize = 5
	MaxTeamSize     = 100
	monthsPerYear   = 12
)

// AnnualDiscount is applied to twelve months of cost when billing annually.
var AnnualDiscount = decimal.RequireFromString("0.85")

// ParseCycle maps form and query values to a Cycle. Unknown values are monthly.
func ParseCycle(s string) Cycle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual", "annually", "yearly", "year":
		return Annual
	default:
		return Monthly
	}
}

// Params are the projection inputs shared by every selected tool.
type Params struct {
	TeamSize int
	Cycle    Cycle
}

// DefaultParams are the calculator settings of a fresh session.
func DefaultParams() Params {
	return Params{TeamSize: DefaultTeamSize, Cycle: Monthly}
}

// Normalized coerces out-of-range parameters: team sizes below one become
// one and unknown cycles become monthly.
func (p Params) Normalized() Params {
	if p.TeamSize < 1 {
		p.TeamSize = 1
	}
	if p.Cycle != Annual {
		p.Cycle = Monthly
	}
	return p
}

// Line is the cost of one selected tool.
type Line struct {
	ToolID   string
	ToolName string
	Plan     string
	Usage    int
	// Base is the plan's monthly list price per seat. Zero when Custom.
	Base   decimal.Decimal
	Cost   decimal.Decimal
	Custom bool
}

// Projection groups per-tool costs and totals for one billing cycle.
type Projection struct {
	Params       Params
	Lines        []Line
	PerTool      map[string]decimal.Decimal
	Total        decimal.Decimal
	MonthlyTotal decimal.Decimal
	// Savings is what annual billing saves over twelve monthly bills.
	Savings      decimal.Decimal
	ContactSales []string
}

// Project computes the cost of items under params. Custom-priced plans are
// left out of every total and listed in ContactSales.
func Project(items []selection.Item, params Params) Projection {
	params = params.Normalized()

	team := decimal.NewFromInt(int64(params.TeamSize))
	yearFactor := decimal.NewFromInt(monthsPerYear)

	proj := Projection{
		Params:       params,
		Lines:        make([]Line, 0, len(items)),
		PerTool:      make(map[string]decimal.Decimal, len(items)),
		Total:        decimal.Zero,
		MonthlyTotal: decimal.Zero,
		Savings:      decimal.Zero,
	}

	undiscounted := decimal.Zero
	for _, it := range items {
		usage := selection.ClampUsage(it.Usage)
		line := Line{
			ToolID:   it.Tool.ID,
			ToolName: it.Tool.Name,
			Plan:     it.Plan.Label,
			Usage:    usage,
			Base:     decimal.Zero,
			Cost:     decimal.Zero,
		}

		base, numeric := it.Plan.Price.Monthly()
		if !numeric {
			line.Custom = true
			proj.Lines = append(proj.Lines, line)
			proj.ContactSales = append(proj.ContactSales, it.Tool.Name)
			continue
		}

		adjusted := base.Mul(team).Mul(decimal.NewFromInt(int64(usage))).Div(decimal.NewFromInt(100))
		final := adjusted
		if params.Cycle == Annual {
			undiscounted = undiscounted.Add(adjusted.Mul(yearFactor))
			final = adjusted.Mul(yearFactor).Mul(AnnualDiscount)
		}

		line.Base = base
		line.Cost = final
		proj.Lines = append(proj.Lines, line)
		proj.PerTool[it.Tool.ID] = final
		proj.Total = proj.Total.Add(final)
	}

	proj.MonthlyTotal = proj.Total
	if params.Cycle == Annual {
		proj.MonthlyTotal = proj.Total.Div(yearFactor)
		proj.Savings = undiscounted.Sub(proj.Total)
	}
	return proj
}
