package stock

// Category identifies one watched feed.
type Category string

const (
	CategorySeeds Category = "seeds"
	CategoryGear  Category = "gear"
)

// Item is a single inventory entry. Identity is the (parse-time trimmed)
// name; Count is never negative.
type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ItemsEqual reports order-sensitive structural equality of two item lists.
// Reordering the same multiset counts as a difference on purpose: the vendor
// re-sequencing items is treated as an update rather than risking a missed
// one.
func ItemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
