package stock

// State is the bot's persisted belief: the last successfully detected
// snapshot per category plus the identity of the currently live published
// message. Snapshots are never nil; a feed that went dark holds an empty
// list.
//
// State is not safe for concurrent mutation; the poll loop owns it.
type State struct {
	Seeds     []Item `json:"seeds"`
	Gear      []Item `json:"gear"`
	MessageID string `json:"message_id,omitempty"`
}

// NewState returns an empty state with non-nil snapshots.
func NewState() *State {
	return &State{Seeds: []Item{}, Gear: []Item{}}
}

// Normalize replaces nil snapshots with empty ones. Called after loading
// from storage, where absent fields decode to nil.
func (s *State) Normalize() {
	if s.Seeds == nil {
		s.Seeds = []Item{}
	}
	if s.Gear == nil {
		s.Gear = []Item{}
	}
}

// Items returns the held snapshot for a category.
func (s *State) Items(cat Category) []Item {
	if cat == CategoryGear {
		return s.Gear
	}
	return s.Seeds
}

// Empty reports whether both snapshots are empty.
func (s *State) Empty() bool { return len(s.Seeds) == 0 && len(s.Gear) == 0 }

// ApplyExtraction diffs a fresh extraction against the held snapshot for the
// category and, when the verdict is a change, overwrites the held snapshot
// (Cleared stores an empty list, never nil). The verdict is returned either
// way.
func (s *State) ApplyExtraction(cat Category, next Extraction) Outcome {
	out := Diff(next, s.Items(cat))
	switch out {
	case Changed:
		s.setItems(cat, next.Items)
	case Cleared:
		s.setItems(cat, []Item{})
	}
	return out
}

func (s *State) setItems(cat Category, items []Item) {
	if items == nil {
		items = []Item{}
	}
	if cat == CategoryGear {
		s.Gear = items
		return
	}
	s.Seeds = items
}
