package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used for tools whose record carries no category.
const DefaultCategory = "Other"

// Price is a monthly list price or the "custom / contact us" marker.
// A custom price never carries an amount.
type Price struct {
	amount decimal.Decimal
	custom bool
}

// Amount returns a numeric monthly price.
func Amount(d decimal.Decimal) Price {
	return Price{amount: d}
}

// CustomPrice returns the "contact us" marker.
func CustomPrice() Price {
	return Price{custom: true}
}

// IsCustom reports whether the price is the contact-us marker.
func (p Price) IsCustom() bool {
	return p.custom
}

// IsFree reports whether the price is a numeric zero.
func (p Price) IsFree() bool {
	return !p.custom && p.amount.IsZero()
}

// Monthly returns the monthly amount; ok is false for custom prices.
func (p Price) Monthly() (decimal.Decimal, bool) {
	if p.custom {
		return decimal.Zero, false
	}
	return p.amount, true
}

// String renders the price the way the comparison table labels it.
func (p Price) String() string {
	switch {
	case p.custom:
		return "Custom"
	case p.IsFree():
		return "Free"
	default:
		return "$" + p.amount.String() + "/mo"
	}
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.custom {
		return json.Marshal("Custom")
	}
	return json.Marshal(p.amount.InexactFloat64())
}

// Plan is a pricing tier of a tool.
type Plan struct {
	Label    string   `json:"plan"`
	Price    Price    `json:"pricePerMonth"`
	Features []string `json:"features,omitempty"`
}

// Tool is a normalized catalog entry.
type Tool struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Plans       []Plan   `json:"pricing"`
	Features    []string `json:"features,omitempty"`
}

// Plan looks up a plan by label.
func (t Tool) Plan(label string) (Plan, bool) {
	for _, p := range t.Plans {
		if p.Label == label {
			return p, true
		}
	}
	return Plan{}, false
}

// DefaultPlan is the first listed plan, used when a tool is first selected.
func (t Tool) DefaultPlan() Plan {
	return t.Plans[0]
}

// StartingPrice is the first plan's price, used to sort and label the table.
func (t Tool) StartingPrice() Price {
	return t.Plans[0].Price
}
