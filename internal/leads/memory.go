package leads

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository keeps leads in process memory for tests.
type MemoryRepository struct {
	mu          sync.Mutex
	leads       []Lead
	subscribers map[string]Subscriber
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{subscribers: make(map[string]Subscriber)}
}

func (r *MemoryRepository) SaveLead(_ context.Context, lead Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
	return nil
}

func (r *MemoryRepository) Subscribe(_ context.Context, sub Subscriber, lead Lead) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(sub.Email)
	if _, ok := r.subscribers[key]; ok {
		return false, nil
	}
	r.subscribers[key] = sub
	r.leads = append(r.leads, lead)
	return true, nil
}

func (r *MemoryRepository) ListLeads(_ context.Context, f Filter) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if f.Kind != "" && l.Kind != f.Kind {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Email), search) &&
			!strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(strings.ToLower(l.Company), search) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) CountByKind(_ context.Context) (map[Kind]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[Kind]int)
	for _, l := range r.leads {
		counts[l.Kind]++
	}
	return counts, nil
}

// Subscribers returns the number of distinct subscribers.
func (r *MemoryRepository) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}
