// Package catalog carries the static item tables: display glyphs and the
// priority names that earn a role mention when in stock. Pure data, no
// behavior.
package catalog

import "stockwatch/internal/stock"

// glyphs maps item names to a decorative emoji. Items missing here render
// with an empty glyph; that is never an error.
var glyphs = map[string]string{
	// seeds
	"Cactus":            "🌵",
	"Strawberry":        "🍓",
	"Pumpkin":           "🎃",
	"Sunflower":         "🌻",
	"Dragon Fruit":      "🐉",
	"Eggplant":          "🍆",
	"Watermelon":        "🍉",
	"Grape":             "🍇",
	"Cocotank":          "🥥",
	"Carnivorous Plant": "🪴",
	"Mr Carrot":         "🥕",
	"Tomatrio":          "🍅",
	"Shroombino":        "🍄",
	"Mango":             "🥭",
	"King Limone":       "🍋",
	"Starfruit":         "⭐",
	"Brussel Sprouts":   "🥬",
	"Kiwi Cannoneer":    "🥝",
	"Kelp Katapulter":   "🌿",
	// gear
	"Water Bucket":    "💧",
	"Frost Grenade":   "❄️",
	"Banana Gun":      "🍌",
	"Frost Blower":    "🌬️",
	"Carrot Launcher": "🥕",
	"Battery Pack":    "🔋",
}

// Glyph returns the emoji for an item name, or "" when unknown.
func Glyph(name string) string { return glyphs[name] }

// DefaultPrioritySeeds and DefaultPriorityGear are the built-in high-value
// item lists. Config may override them.
var (
	DefaultPrioritySeeds = []string{
		"King Limone",
		"Starfruit",
		"Brussel Sprouts",
		"Kiwi Cannoneer",
		"Kelp Katapulter",
	}
	DefaultPriorityGear = []string{
		"Carrot Launcher",
		"Battery Pack",
	}
)

// PrioritySet is a name set deciding mention eligibility per category.
type PrioritySet map[string]struct{}

func NewPrioritySet(names []string) PrioritySet {
	s := make(PrioritySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s PrioritySet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Priorities bundles both category sets.
type Priorities struct {
	Seeds PrioritySet
	Gear  PrioritySet
}

// For returns the set matching a category.
func (p Priorities) For(cat stock.Category) PrioritySet {
	if cat == stock.CategoryGear {
		return p.Gear
	}
	return p.Seeds
}

// DefaultPriorities returns the built-in lists as sets.
func DefaultPriorities() Priorities {
	return Priorities{
		Seeds: NewPrioritySet(DefaultPrioritySeeds),
		Gear:  NewPrioritySet(DefaultPriorityGear),
	}
}
