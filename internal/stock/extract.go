package stock

import (
	"context"
	"strings"
	"sync/atomic"

	logx "stockwatch/pkg/logx"
)

// Message is the slice of a chat message the extractor cares about.
type Message struct {
	Author string
	Embeds []Embed
}

// Embed is one structured attachment on a message.
type Embed struct {
	Description string
}

// Source fetches recent messages from a channel, newest first. An
// unresolvable channel surfaces as an error; the extractor degrades it to
// NoData.
type Source interface {
	FetchRecent(ctx context.Context, channelID string, limit int) ([]Message, error)
}

// Extractor pulls the newest vendor inventory snapshot out of one channel.
type Extractor struct {
	src    Source
	vendor string // author display-name substring that marks vendor posts
	limit  atomic.Int32
	log    logx.Logger
}

func NewExtractor(src Source, vendor string, limit int, log logx.Logger) *Extractor {
	if limit <= 0 {
		limit = 5
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	e := &Extractor{src: src, vendor: vendor, log: log}
	e.limit.Store(int32(limit))
	return e
}

// SetLimit updates the fetch batch size at runtime (config hot reload).
// Non-positive values are ignored.
func (e *Extractor) SetLimit(limit int) {
	if limit > 0 {
		e.limit.Store(int32(limit))
	}
}

// Extract scans the channel newest-first for the first vendor message that
// carries an embed with a non-empty description, and parses its lines.
//
// Every failure mode (fetch error, no vendor message, nothing parsed) comes
// back as NoData; this cycle simply learned nothing about the channel.
func (e *Extractor) Extract(ctx context.Context, channelID string, cat Category) Extraction {
	msgs, err := e.src.FetchRecent(ctx, channelID, int(e.limit.Load()))
	if err != nil {
		e.log.Warn("fetch failed",
			logx.String("category", string(cat)),
			logx.String("channel", channelID),
			logx.Err(err),
		)
		return NoData()
	}

	for _, m := range msgs {
		if !strings.Contains(m.Author, e.vendor) {
			continue
		}
		for _, em := range m.Embeds {
			if strings.TrimSpace(em.Description) == "" {
				continue
			}
			if items := ParseInventory(em.Description); len(items) > 0 {
				e.log.Debug("inventory parsed",
					logx.String("category", string(cat)),
					logx.Int("items", len(items)),
				)
				return ItemsOf(items)
			}
		}
	}

	e.log.Debug("no fresh data", logx.String("category", string(cat)))
	return NoData()
}
