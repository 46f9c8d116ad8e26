package stock

// Extraction is the two-valued result of one channel scan.
//
// OK=false means "could not determine the current state" (no vendor message
// found, fetch failed, or nothing parsed) and is distinct from a present but
// empty list. The source cannot tell "channel shows zero items" apart from
// "no usable message"; the ambiguity is kept explicit here instead of being
// papered over.
type Extraction struct {
	OK    bool
	Items []Item
}

// NoData is the "could not determine current state" sentinel.
func NoData() Extraction { return Extraction{} }

// ItemsOf wraps a parsed item list. An empty or nil list degrades to NoData,
// matching the caller policy that an all-zero extraction carries no
// information.
func ItemsOf(items []Item) Extraction {
	if len(items) == 0 {
		return Extraction{}
	}
	return Extraction{OK: true, Items: items}
}

// Outcome is the change verdict for one category.
type Outcome int

const (
	Unchanged Outcome = iota
	Changed           // data present and different from held
	Cleared           // feed went dark while we held items; counts as a change
)

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case Cleared:
		return "cleared"
	default:
		return "unchanged"
	}
}

// DidChange reports whether the verdict requires a republish.
func (o Outcome) DidChange() bool { return o != Unchanged }

// Diff compares a fresh extraction against the held snapshot. It is a pure
// function: same inputs, same verdict.
func Diff(next Extraction, held []Item) Outcome {
	if !next.OK {
		if len(held) == 0 {
			return Unchanged
		}
		return Cleared
	}
	if ItemsEqual(next.Items, held) {
		return Unchanged
	}
	return Changed
}
