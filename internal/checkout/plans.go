package checkout

import (
	"sort"

	"github.com/siteoptz/siteoptz/internal/pricing"
)

// Plan is a SiteOptz subscription tier sold through checkout.
type Plan struct {
	ID           string
	Name         string
	MonthlyCents int64
	YearlyCents  int64
}

// Amount returns the charge for one billing period of cycle.
func (p Plan) Amount(cycle pricing.Cycle) int64 {
	if cycle == pricing.Annual {
		return p.YearlyCents
	}
	return p.MonthlyCents
}

var plans = map[string]Plan{
	"starter":    {ID: "starter", Name: "Starter", MonthlyCents: 5900, YearlyCents: 49700},
	"pro":        {ID: "pro", Name: "Pro", MonthlyCents: 19900, YearlyCents: 199700},
	"enterprise": {ID: "enterprise", Name: "Enterprise", MonthlyCents: 49900, YearlyCents: 499700},
}

// GetPlan looks a plan up by id.
func GetPlan(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Plans returns every plan, cheapest first.
func Plans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthlyCents < out[j].MonthlyCents })
	return out
}
