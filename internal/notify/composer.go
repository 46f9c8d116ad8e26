// Package notify turns a detected stock change into the single live webhook
// message: the composer renders the payload, the publisher performs the
// create-or-edit cycle and keeps the live message id honest.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"stockwatch/internal/catalog"
	"stockwatch/internal/discord"
	"stockwatch/internal/stock"
)

const (
	embedTitle = "🌱 PLANTS VS BRAINROTS | STOCK"
	embedColor = 0x00FF00

	seedsHeader = "🌾 SEEDS"
	gearHeader  = "⚙️ GEAR"
)

// MentionResolver looks up a role id by exact name within one guild.
// Implemented by discord.Client.
type MentionResolver interface {
	RoleID(ctx context.Context, guildID, name string) (string, bool)
}

// Composer builds the outbound payload from the post-update state.
//
// Callers must not invoke it when both snapshots are empty; there is nothing
// to render and the live message is left as-is.
type Composer struct {
	guildID  string
	resolver MentionResolver

	mu   sync.RWMutex
	prio catalog.Priorities

	now func() time.Time // test seam
}

func NewComposer(guildID string, prio catalog.Priorities, resolver MentionResolver) *Composer {
	return &Composer{guildID: guildID, prio: prio, resolver: resolver, now: time.Now}
}

// SetPriorities swaps the priority sets at runtime (config hot reload).
func (c *Composer) SetPriorities(p catalog.Priorities) {
	c.mu.Lock()
	c.prio = p
	c.mu.Unlock()
}

// Compose renders one embed with a field per non-empty category plus the
// priority mention line.
func (c *Composer) Compose(ctx context.Context, st *stock.State) discord.WebhookPayload {
	var fields []discord.EmbedField
	if len(st.Seeds) > 0 {
		fields = append(fields, discord.EmbedField{Name: seedsHeader, Value: renderItems(st.Seeds)})
	}
	if len(st.Gear) > 0 {
		fields = append(fields, discord.EmbedField{Name: gearHeader, Value: renderItems(st.Gear)})
	}

	now := c.now()
	return discord.WebhookPayload{
		Content: c.mentions(ctx, st),
		Embeds: []discord.Embed{{
			Title:     embedTitle,
			Color:     embedColor,
			Fields:    fields,
			Footer:    &discord.EmbedFooter{Text: "Last update: " + now.UTC().Format("15:04:05") + " UTC"},
			Timestamp: now.UTC().Format(time.RFC3339),
		}},
	}
}

// renderItems joins one bullet line per item, preserving source order.
// A missing glyph renders as an empty slot, same as the vendor feed shows it.
func renderItems(items []stock.Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("• %s %s — %d", it.Name, catalog.Glyph(it.Name), it.Count))
	}
	return strings.Join(lines, "\n")
}

// mentions collects role pings for priority items present in the current
// state, seeds before gear. Names that don't resolve to a role are skipped
// silently.
func (c *Composer) mentions(ctx context.Context, st *stock.State) string {
	if c.resolver == nil || c.guildID == "" {
		return ""
	}
	c.mu.RLock()
	prio := c.prio
	c.mu.RUnlock()

	var b strings.Builder
	for _, cat := range []stock.Category{stock.CategorySeeds, stock.CategoryGear} {
		set := prio.For(cat)
		for _, it := range st.Items(cat) {
			if !set.Contains(it.Name) {
				continue
			}
			if id, ok := c.resolver.RoleID(ctx, c.guildID, it.Name); ok {
				b.WriteString("<@&")
				b.WriteString(id)
				b.WriteString("> ")
			}
		}
	}
	return strings.TrimSpace(b.String())
}
