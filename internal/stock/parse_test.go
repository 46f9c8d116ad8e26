package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		want Item
		ok   bool
	}{
		{name: "plain", line: "Cactus x4", want: Item{Name: "Cactus", Count: 4}, ok: true},
		{name: "dash marker", line: "- Cactus x4", want: Item{Name: "Cactus", Count: 4}, ok: true},
		{name: "bullet marker", line: "• Cactus x4", want: Item{Name: "Cactus", Count: 4}, ok: true},
		{name: "two-word name", line: "- Banana Gun x12", want: Item{Name: "Banana Gun", Count: 12}, ok: true},
		{name: "uppercase separator", line: "Starfruit X7", want: Item{Name: "Starfruit", Count: 7}, ok: true},
		{name: "no space before separator", line: "Cactusx4", want: Item{Name: "Cactus", Count: 4}, ok: true},
		{name: "extra whitespace", line: "-   Mr Carrot   x2", want: Item{Name: "Mr Carrot", Count: 2}, ok: true},
		{name: "trailing text ignored", line: "Grape x3 (restock soon)", want: Item{Name: "Grape", Count: 3}, ok: true},
		{name: "zero count", line: "Pumpkin x0", want: Item{Name: "Pumpkin", Count: 0}, ok: true},
		{name: "name containing separator letter", line: "Kelp Katapulter x9", want: Item{Name: "Kelp Katapulter", Count: 9}, ok: true},
		{name: "digits in name", line: "Mk2 Blaster x1", want: Item{Name: "Mk2 Blaster", Count: 1}, ok: true},

		{name: "empty", line: ""},
		{name: "blank", line: "   "},
		{name: "no count", line: "Cactus x"},
		{name: "no separator", line: "Cactus 4"},
		{name: "separator without name", line: "x4"},
		{name: "only marker", line: "- "},
		{name: "prose", line: "Stock refreshes every hour"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok, "match verdict for %q", tt.line)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseLinePicksFirstViableSeparator(t *testing.T) {
	t.Parallel()
	// The first "x<digits>" with a name run before it wins; the rest of the
	// line is ignored.
	got, ok := ParseLine("Cactus x4 Grape x3")
	require.True(t, ok)
	assert.Equal(t, Item{Name: "Cactus", Count: 4}, got)
}

func TestParseInventoryPreservesOrder(t *testing.T) {
	t.Parallel()
	body := "- Cactus x4\nnot an item\n- Banana Gun x2\n\n- Grape x1"
	items := ParseInventory(body)
	require.Equal(t, []Item{
		{Name: "Cactus", Count: 4},
		{Name: "Banana Gun", Count: 2},
		{Name: "Grape", Count: 1},
	}, items)
}

func TestParseInventoryAllMalformed(t *testing.T) {
	t.Parallel()
	assert.Empty(t, ParseInventory("nothing\nto see\nhere"))
}
