package model

// Category is one entry of the fixed category table: an id, a display label
// and a color token consumed by the rendering layer.
type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// UrgentCategoryID is the entry whose incomplete backlog is surfaced as urgent.
const UrgentCategoryID = "urgent"

// DefaultCategories is the built-in closed category set. The first entry is
// the fallback for unknown ids.
func DefaultCategories() []Category {
	return []Category{
		{ID: "work", Label: "Work", Color: "sky"},
		{ID: "personal", Label: "Personal", Color: "blue"},
		{ID: "health", Label: "Health", Color: "indigo"},
		{ID: "study", Label: "Study", Color: "cyan"},
		{ID: "meetings", Label: "Meetings", Color: "slate"},
		{ID: UrgentCategoryID, Label: "Urgent", Color: "red"},
		{ID: "other", Label: "Other", Color: "gray"},
	}
}

// CategorySet is a static id lookup with a designated default entry.
type CategorySet struct {
	entries []Category
	byID    map[string]Category
}

// NewCategorySet builds a set from the given entries. The first entry is the
// default; an empty slice falls back to DefaultCategories.
func NewCategorySet(entries []Category) *CategorySet {
	if len(entries) == 0 {
		entries = DefaultCategories()
	}
	byID := make(map[string]Category, len(entries))
	for _, c := range entries {
		byID[c.ID] = c
	}
	return &CategorySet{entries: entries, byID: byID}
}

// Resolve maps an id to its category. Unknown ids resolve to the default
// entry rather than failing.
func (s *CategorySet) Resolve(id string) Category {
	if c, ok := s.byID[id]; ok {
		return c
	}
	return s.entries[0]
}

// Known reports whether id names a real table entry.
func (s *CategorySet) Known(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// All returns the table in declaration order.
func (s *CategorySet) All() []Category {
	return s.entries
}
