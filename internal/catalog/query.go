package catalog

import (
	"sort"
	"strings"
)

// SortKey names a comparison-table column.
type SortKey string

const (
	SortRating   SortKey = "rating"
	SortName     SortKey = "name"
	SortPrice    SortKey = "price"
	SortFeatures SortKey = "features"
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to rating.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortPrice, SortFeatures:
		return k
	default:
		return SortRating
	}
}

// Query filters and orders the comparison table. An empty Category or "all"
// matches every tool.
type Query struct {
	Category   string
	Search     string
	Sort       SortKey
	Descending bool
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range c.tools {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// CategoryCounts returns how many tools each category holds.
func (c *Catalog) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, t := range c.tools {
		counts[t.Category]++
	}
	return counts
}

// Find applies q to the catalog. Ties keep catalog order.
func (c *Catalog) Find(q Query) []Tool {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	out := make([]Tool, 0, len(c.tools))
	for _, t := range c.tools {
		if category != "" && t.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}

	less := lessFunc(q.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key SortKey) func(a, b Tool) bool {
	switch key {
	case SortName:
		return func(a, b Tool) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortPrice:
		return func(a, b Tool) bool {
			return comparePrice(a.StartingPrice(), b.StartingPrice()) < 0
		}
	case SortFeatures:
		return func(a, b Tool) bool {
			return len(a.Features) < len(b.Features)
		}
	default:
		return func(a, b Tool) bool {
			return a.Rating < b.Rating
		}
	}
}

// comparePrice orders custom prices above every numeric price.
func comparePrice(a, b Price) int {
	switch {
	case a.custom && b.custom:
		return 0
	case a.custom:
		return 1
	case b.custom:
		return -1
	}
	return a.amount.Cmp(b.amount)
}
