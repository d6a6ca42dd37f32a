package selection

import (
	"errors"
	"fmt"

	"github.com/siteoptz/siteoptz/internal/catalog"
)

const (
	// CalculatorCap is the number of tools the cost calculator accepts.
	CalculatorCap = 5
	// CompareCap is the number of tools the comparison table accepts.
	CompareCap = 3

	MinUsage     = 10
	MaxUsage     = 100
	UsageStep    = 10
	DefaultUsage = 50
)

var (
	ErrAlreadySelected = errors.New("tool is already selected")
	ErrUnknownTool     = errors.New("unknown tool")
)

// CapacityError is returned by Add when the selection is full.
type CapacityError struct {
	Cap int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("You can compare up to %d tools at once", e.Cap)
}

// ErrCapacity matches any *CapacityError with errors.Is.
var ErrCapacity = &CapacityError{}

func (e *CapacityError) Is(target error) bool {
	_, ok := target.(*CapacityError)
	return ok
}

// Item is one selected tool with its chosen plan and usage percentage.
type Item struct {
	Tool  catalog.Tool
	Plan  catalog.Plan
	Usage int
}

// State is the ordered set of tools a visitor is comparing. It is owned by a
// single session and is not safe for concurrent use.
type State struct {
	catalog *catalog.Catalog
	cap     int
	items   []Item
}

// New returns an empty State bounded by limit.
func New(c *catalog.Catalog, limit int) *State {
	if limit < 1 {
		limit = 1
	}
	return &State{catalog: c, cap: limit}
}

// Add appends toolID with its first plan and the default usage. The state is
// left unchanged on error.
func (s *State) Add(toolID string) error {
	if s.Contains(toolID) {
		return ErrAlreadySelected
	}
	if len(s.items) >= s.cap {
		return &CapacityError{Cap: s.cap}
	}
	tool, ok := s.catalog.Get(toolID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, toolID)
	}
	s.items = append(s.items, Item{Tool: tool, Plan: tool.DefaultPlan(), Usage: DefaultUsage})
	return nil
}

// Toggle removes toolID when selected and adds it otherwise.
func (s *State) Toggle(toolID string) error {
	if s.Contains(toolID) {
		s.Remove(toolID)
		return nil
	}
	return s.Add(toolID)
}

// Remove drops toolID. Removing an absent tool is a no-op.
func (s *State) Remove(toolID string) {
	for i, it := range s.items {
		if it.Tool.ID == toolID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetPlan switches the plan of a selected tool and keeps its usage. Unknown
// tools or plan labels are ignored.
func (s *State) SetPlan(toolID, label string) {
	i := s.index(toolID)
	if i < 0 {
		return
	}
	plan, ok := s.items[i].Tool.Plan(label)
	if !ok {
		return
	}
	s.items[i].Plan = plan
}

// SetUsage stores percent, clamped to [MinUsage, MaxUsage] and snapped to the
// nearest UsageStep.
func (s *State) SetUsage(toolID string, percent int) {
	i := s.index(toolID)
	if i < 0 {
		return
	}
	s.items[i].Usage = ClampUsage(percent)
}

// Reset clears the selection.
func (s *State) Reset() {
	s.items = nil
}

// Items returns a copy of the selected tools in insertion order.
func (s *State) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *State) Len() int { return len(s.items) }

func (s *State) Cap() int { return s.cap }

// Full reports whether another Add would fail on capacity.
func (s *State) Full() bool { return len(s.items) >= s.cap }

func (s *State) Contains(toolID string) bool {
	return s.index(toolID) >= 0
}

func (s *State) index(toolID string) int {
	for i, it := range s.items {
		if it.Tool.ID == toolID {
			return i
		}
	}
	return -1
}

// ClampUsage bounds a usage percentage to the slider range and step.
func ClampUsage(percent int) int {
	if percent < MinUsage {
		return MinUsage
	}
	if percent > MaxUsage {
		return MaxUsage
	}
	return (percent + UsageStep/2) / UsageStep * UsageStep
}
