package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logx "stockwatch/pkg/logx"
)

func TestFetchRecentMapsMessages(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/channels/123/messages", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "tok", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`[
			{"id":"2","author":{"username":"pvbstocks","global_name":"PVB Stocks"},
			 "embeds":[{"description":"- Cactus x4"}]},
			{"id":"1","author":{"username":"plain"},"embeds":[]}
		]`))
	}))
	defer srv.Close()

	cl := NewClient("tok", logx.Nop(), WithBaseURL(srv.URL))
	msgs, err := cl.FetchRecent(context.Background(), "123", 5)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// global_name wins over username when present
	assert.Equal(t, "PVB Stocks", msgs[0].Author)
	require.Len(t, msgs[0].Embeds, 1)
	assert.Equal(t, "- Cactus x4", msgs[0].Embeds[0].Description)
	assert.Equal(t, "plain", msgs[1].Author)
}

func TestFetchRecentUnresolvedChannel(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Channel"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	cl := NewClient("tok", logx.Nop(), WithBaseURL(srv.URL))
	_, err := cl.FetchRecent(context.Background(), "missing", 5)
	require.Error(t, err)
}

func TestRoleIDCachesTable(t *testing.T) {
	t.Parallel()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/guilds/g1/roles", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"101","name":"King Limone"},{"id":"202","name":"Battery Pack"}]`))
	}))
	defer srv.Close()

	cl := NewClient("tok", logx.Nop(), WithBaseURL(srv.URL))

	id, ok := cl.RoleID(context.Background(), "g1", "King Limone")
	require.True(t, ok)
	assert.Equal(t, "101", id)

	// Second lookup hits the cache, including misses.
	_, ok = cl.RoleID(context.Background(), "g1", "No Such Role")
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestRoleIDFetchFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	cl := NewClient("tok", logx.Nop(), WithBaseURL(srv.URL))
	_, ok := cl.RoleID(context.Background(), "g1", "King Limone")
	assert.False(t, ok)
}
