package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Tool records arrive in several shapes. Normalize is the single place that
// knows about them; everything past this file works on Tool.
//
// Supported pricing shapes:
//   - [{plan|tier|name, price_per_month: 20 | "Custom" | "Free" | "$20", features}]
//   - {monthly: 20, yearly: 200}
//   - {free: "No free plan available", basic: "Plus - $20/month", pro: "..."}

var (
	dollarAmount = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`)
	bareNumber   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	slugUnsafe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// tier keys of the string-map shape, cheapest first.
var tierOrder = []string{"free", "basic", "starter", "standard", "plus", "pro", "professional", "team", "business", "enterprise"}

// Normalize converts raw tool records into Tools. Records without a name are
// rejected; tools that end up with no usable plan are dropped.
func Normalize(records []map[string]any) ([]Tool, error) {
	tools := make([]Tool, 0, len(records))
	for i, rec := range records {
		t, err := normalizeTool(rec)
		if err != nil {
			return nil, fmt.Errorf("tool record %d: %w", i, err)
		}
		if len(t.Plans) == 0 {
			continue
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func normalizeTool(rec map[string]any) (Tool, error) {
	name := firstString(rec, "name", "tool_name")
	if name == "" {
		return Tool{}, fmt.Errorf("missing name")
	}

	overview, _ := rec["overview"].(map[string]any)

	t := Tool{
		ID:          firstString(rec, "id", "slug"),
		Name:        name,
		Category:    firstString(rec, "category"),
		Description: firstString(rec, "description"),
	}
	if t.ID == "" {
		t.ID = Slugify(name)
	}
	if overview != nil {
		if t.Category == "" {
			t.Category = firstString(overview, "category")
		}
		if t.Description == "" {
			t.Description = firstString(overview, "description")
		}
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if r, ok := toFloat(rec["rating"]); ok {
		t.Rating = r
	}
	t.Features = normalizeFeatures(rec["features"])

	switch pricing := rec["pricing"].(type) {
	case []any:
		t.Plans = plansFromList(pricing)
	case map[string]any:
		if _, ok := pricing["monthly"]; ok {
			t.Plans = plansFromCycles(pricing)
		} else {
			t.Plans = plansFromTiers(pricing)
		}
	}
	return t, nil
}

func plansFromList(items []any) []Plan {
	plans := make([]Plan, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		price, ok := ParsePrice(m["price_per_month"])
		if !ok {
			price, ok = ParsePrice(m["price"])
		}
		if !ok {
			continue
		}
		label := firstString(m, "plan", "tier", "name")
		if label == "" {
			label = fmt.Sprintf("Plan %d", len(plans)+1)
		}
		plans = append(plans, Plan{
			Label:    label,
			Price:    price,
			Features: stringList(m["features"]),
		})
	}
	return plans
}

func plansFromCycles(m map[string]any) []Plan {
	monthly, ok := ParsePrice(m["monthly"])
	if !ok {
		return nil
	}
	plans := []Plan{{Label: "Monthly", Price: monthly}}
	if yearly, ok := ParsePrice(m["yearly"]); ok {
		if amount, numeric := yearly.Monthly(); numeric {
			yearly = Amount(amount.Div(decimal.NewFromInt(12)).Round(2))
		}
		plans = append(plans, Plan{Label: "Annual", Price: yearly})
	}
	return plans
}

func plansFromTiers(m map[string]any) []Plan {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	rank := func(k string) int {
		for i, t := range tierOrder {
			if strings.EqualFold(k, t) {
				return i
			}
		}
		return len(tierOrder)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	plans := make([]Plan, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		price, ok := ParsePrice(m[k])
		if !ok {
			continue
		}
		label := capitalize(k)
		if s, isString := m[k].(string); isString {
			if before, _, found := strings.Cut(s, " - "); found && strings.TrimSpace(before) != "" {
				label = strings.TrimSpace(before)
			}
		}
		plans = append(plans, Plan{Label: label, Price: price})
	}
	return plans
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ParsePrice interprets a raw price value. ok is false when the value does not
// describe a usable plan (missing, negative, "No free plan available").
func ParsePrice(v any) (Price, bool) {
	if f, ok := toFloat(v); ok {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return Price{}, false
		}
		return Amount(decimal.NewFromFloat(f)), true
	}

	s, ok := v.(string)
	if !ok {
		return Price{}, false
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case lower == "", lower == "n/a", strings.HasPrefix(lower, "no "):
		return Price{}, false
	case lower == "free":
		return Amount(decimal.Zero), true
	case lower == "custom", strings.Contains(lower, "contact"):
		return CustomPrice(), true
	}

	if n, found := priceAmount(lower); found {
		d, err := decimal.NewFromString(n)
		if err != nil {
			return Price{}, false
		}
		return Amount(d), true
	}
	if strings.Contains(lower, "free") {
		return Amount(decimal.Zero), true
	}
	if strings.Contains(lower, "custom") || strings.Contains(lower, "enterprise") {
		return CustomPrice(), true
	}
	return Price{}, false
}

// priceAmount picks the money figure out of a price label. A "$" amount wins
// over any other digits, so "GPT-4 Plus - $20/month" reads as 20.
func priceAmount(s string) (string, bool) {
	if match := dollarAmount.FindStringSubmatch(s); match != nil {
		return strings.ReplaceAll(match[1], ",", ""), true
	}
	if strings.Contains(s, "$") {
		return "", false
	}
	if n := bareNumber.FindString(s); n != "" {
		return n, true
	}
	return "", false
}

// Slugify turns a display name into a stable tool id.
func Slugify(name string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func normalizeFeatures(v any) []string {
	switch f := v.(type) {
	case []any:
		return stringList(f)
	case map[string]any:
		var out []string
		for _, group := range []string{"core", "advanced", "integrations"} {
			out = append(out, stringList(f[group])...)
		}
		return out
	}
	return nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
