package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/catalog"
	"stockwatch/internal/stock"
)

type fakeResolver struct {
	roles map[string]string
}

func (f *fakeResolver) RoleID(ctx context.Context, guildID, name string) (string, bool) {
	id, ok := f.roles[name]
	return id, ok
}

func testComposer(roles map[string]string) *Composer {
	c := NewComposer("guild-1", catalog.DefaultPriorities(), &fakeResolver{roles: roles})
	c.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	}
	return c
}

func TestComposeSingleCategory(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{{Name: "Cactus", Count: 4}}

	p := testComposer(nil).Compose(context.Background(), st)

	require.Len(t, p.Embeds, 1)
	em := p.Embeds[0]
	assert.Equal(t, "🌱 PLANTS VS BRAINROTS | STOCK", em.Title)
	assert.Equal(t, 0x00FF00, em.Color)
	require.Len(t, em.Fields, 1)
	assert.Equal(t, "🌾 SEEDS", em.Fields[0].Name)
	assert.Equal(t, "• Cactus 🌵 — 4", em.Fields[0].Value)
	require.NotNil(t, em.Footer)
	assert.Equal(t, "Last update: 12:30:45 UTC", em.Footer.Text)
	assert.Equal(t, "2025-06-01T12:30:45Z", em.Timestamp)
	assert.Empty(t, p.Content)
}

func TestComposeBothCategoriesPreserveOrder(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{
		{Name: "Grape", Count: 2},
		{Name: "Cactus", Count: 4},
	}
	st.Gear = []stock.Item{{Name: "Water Bucket", Count: 1}}

	p := testComposer(nil).Compose(context.Background(), st)

	require.Len(t, p.Embeds, 1)
	fields := p.Embeds[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "🌾 SEEDS", fields[0].Name)
	assert.Equal(t, "• Grape 🍇 — 2\n• Cactus 🌵 — 4", fields[0].Value)
	assert.Equal(t, "⚙️ GEAR", fields[1].Name)
	assert.Equal(t, "• Water Bucket 💧 — 1", fields[1].Value)
}

func TestComposeUnknownGlyphRendersEmpty(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{{Name: "Mystery Herb", Count: 3}}

	p := testComposer(nil).Compose(context.Background(), st)
	require.Len(t, p.Embeds[0].Fields, 1)
	assert.Equal(t, "• Mystery Herb  — 3", p.Embeds[0].Fields[0].Value)
}

func TestComposeMentionsSeedsBeforeGear(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{
		{Name: "Cactus", Count: 4},      // not priority
		{Name: "King Limone", Count: 1}, // priority, resolvable
		{Name: "Starfruit", Count: 2},   // priority, unresolvable -> skipped
	}
	st.Gear = []stock.Item{{Name: "Battery Pack", Count: 1}} // priority, resolvable

	c := testComposer(map[string]string{
		"King Limone":  "101",
		"Battery Pack": "202",
	})
	p := c.Compose(context.Background(), st)
	assert.Equal(t, "<@&101> <@&202>", p.Content)
}

func TestComposeSetPrioritiesTakesEffect(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{
		{Name: "Cactus", Count: 4},
		{Name: "King Limone", Count: 1},
	}

	c := testComposer(map[string]string{
		"King Limone": "101",
		"Cactus":      "303",
	})

	// Default sets: only King Limone is a priority item.
	assert.Equal(t, "<@&101>", c.Compose(context.Background(), st).Content)

	// Reloaded config swaps the sets; Cactus now pings, King Limone no longer.
	c.SetPriorities(catalog.Priorities{
		Seeds: catalog.NewPrioritySet([]string{"Cactus"}),
		Gear:  catalog.NewPrioritySet(nil),
	})
	assert.Equal(t, "<@&303>", c.Compose(context.Background(), st).Content)
}

func TestComposeWithoutResolver(t *testing.T) {
	t.Parallel()
	st := stock.NewState()
	st.Seeds = []stock.Item{{Name: "King Limone", Count: 1}}

	c := NewComposer("", catalog.DefaultPriorities(), nil)
	p := c.Compose(context.Background(), st)
	assert.Empty(t, p.Content)
}
