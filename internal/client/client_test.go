package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/bridge-go/internal/relay"
	"github.com/comigor/bridge-go/internal/server"
)

func newRelay(t *testing.T) *Client {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	srv := httptest.NewServer(server.New(relay.NewStore(relay.WithLogger(log)), log).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newRelay(t)

	m, err := c.Send(ctx, "claude-code", "browser", "hello", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, m.ID)
	require.Equal(t, relay.DefaultType, m.Type)
	require.Equal(t, relay.StatusUnread, m.Status)

	_, err = c.Send(ctx, "browser", "claude-code", "hi back", "reply")
	require.NoError(t, err)

	all, err := c.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	fromBrowser, err := c.List(ctx, "browser", "")
	require.NoError(t, err)
	require.Len(t, fromBrowser, 1)
	require.Equal(t, "reply", fromBrowser[0].Type)

	unread, err := c.Unread(ctx, "browser")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	read, err := c.MarkRead(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, relay.StatusRead, read.Status)
	require.NotNil(t, read.ReadAt)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, relay.StatusRead, got.Status)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	require.Equal(t, relay.Health{Status: "healthy", MessageCount: 2, UnreadCount: 1}, h)

	require.NoError(t, c.Delete(ctx, 1))
	require.NoError(t, c.Delete(ctx, 1))

	_, err = c.Get(ctx, 1)
	require.True(t, IsNotFound(err), "got %v", err)
}

func TestClient_ErrorBodyIsDecoded(t *testing.T) {
	c := newRelay(t)

	_, err := c.MarkRead(context.Background(), 77)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Message not found", apiErr.Message)
}

func TestClient_UnreachableRelay(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Health(context.Background())
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}
