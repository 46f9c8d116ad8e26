package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stockwatch/internal/stock"
	logx "stockwatch/pkg/logx"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Client reads channel messages and guild roles through the Discord REST
// API. All calls share one token-bucket limiter so a burst of categories
// can't trip the API's rate limits.
type Client struct {
	http    *http.Client
	base    string
	token   string
	limiter *rate.Limiter
	log     logx.Logger

	// role cache: one guild, refreshed lazily
	rmu       sync.Mutex
	roles     map[string]string // name -> id
	rolesAt   time.Time
	refreshed time.Duration
}

// Option tweaks a Client. Used by tests to point at an httptest server.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option { return func(cl *Client) { cl.base = u } }

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(cl *Client) { cl.http = h } }

func NewClient(token string, log logx.Logger, opts ...Option) *Client {
	if log.IsZero() {
		log = logx.Nop()
	}
	cl := &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		base:      defaultAPIBase,
		token:     token,
		limiter:   rate.NewLimiter(rate.Limit(5), 5),
		log:       log,
		refreshed: 5 * time.Minute,
	}
	for _, o := range opts {
		o(cl)
	}
	return cl
}

// FetchRecent returns the newest messages of a channel, newest first (the
// API already orders descending). Implements stock.Source.
func (cl *Client) FetchRecent(ctx context.Context, channelID string, limit int) ([]stock.Message, error) {
	if limit <= 0 {
		limit = 5
	}
	u := fmt.Sprintf("%s/channels/%s/messages?limit=%d", cl.base, channelID, limit)

	var raw []apiMessage
	if err := cl.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}

	msgs := make([]stock.Message, 0, len(raw))
	for _, m := range raw {
		author := m.Author.Username
		if m.Author.GlobalName != "" {
			author = m.Author.GlobalName
		}
		sm := stock.Message{Author: author}
		for _, e := range m.Embeds {
			sm.Embeds = append(sm.Embeds, stock.Embed{Description: e.Description})
		}
		msgs = append(msgs, sm)
	}
	return msgs, nil
}

// RoleID resolves a role id by exact name within a guild. The role table is
// cached briefly; a miss after a fresh fetch means the role doesn't exist.
func (cl *Client) RoleID(ctx context.Context, guildID, name string) (string, bool) {
	cl.rmu.Lock()
	fresh := cl.roles != nil && time.Since(cl.rolesAt) < cl.refreshed
	if fresh {
		id, ok := cl.roles[name]
		cl.rmu.Unlock()
		return id, ok
	}
	cl.rmu.Unlock()

	var raw []apiRole
	u := fmt.Sprintf("%s/guilds/%s/roles", cl.base, guildID)
	if err := cl.getJSON(ctx, u, &raw); err != nil {
		cl.log.Warn("role fetch failed", logx.String("guild", guildID), logx.Err(err))
		// Fall back to a stale table if we have one.
		cl.rmu.Lock()
		defer cl.rmu.Unlock()
		if cl.roles != nil {
			id, ok := cl.roles[name]
			return id, ok
		}
		return "", false
	}

	table := make(map[string]string, len(raw))
	for _, r := range raw {
		table[r.Name] = r.ID
	}

	cl.rmu.Lock()
	cl.roles = table
	cl.rolesAt = time.Now()
	id, ok := cl.roles[name]
	cl.rmu.Unlock()
	return id, ok
}

func (cl *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := cl.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", cl.token)
	req.Header.Set("Accept", "application/json")

	resp, err := cl.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord: GET %s: status %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
