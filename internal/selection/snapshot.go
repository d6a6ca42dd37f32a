package selection

// Entry is the persisted form of an Item.
type Entry struct {
	ToolID string `json:"toolId"`
	Plan   string `json:"plan"`
	Usage  int    `json:"usage"`
}

// Snapshot returns the state in a form that can be stored in a session.
func (s *State) Snapshot() []Entry {
	out := make([]Entry, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, Entry{ToolID: it.Tool.ID, Plan: it.Plan.Label, Usage: it.Usage})
	}
	return out
}

// Restore replaces the state with entries. Entries whose tool is no longer in
// the catalog, duplicates and entries past the cap are dropped; an unknown plan
// falls back to the tool's first plan.
func (s *State) Restore(entries []Entry) {
	s.items = nil
	for _, e := range entries {
		if s.Full() {
			return
		}
		if s.Contains(e.ToolID) {
			continue
		}
		tool, ok := s.catalog.Get(e.ToolID)
		if !ok {
			continue
		}
		plan, ok := tool.Plan(e.Plan)
		if !ok {
			plan = tool.DefaultPlan()
		}
		s.items = append(s.items, Item{Tool: tool, Plan: plan, Usage: ClampUsage(e.Usage)})
	}
}
