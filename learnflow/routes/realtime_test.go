package routes

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"learnflow/learnflow/realtime"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeRelay(t *testing.T) {
	hub := realtime.NewHub()
	srv := httptest.NewServer(RealtimeRoutes(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	viewer, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	editor, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)

	join := []byte(`{"event":"join-note","note_id":"n1"}`)
	require.NoError(t, viewer.Write(ctx, websocket.MessageText, join))
	require.NoError(t, editor.Write(ctx, websocket.MessageText, join))
	// Joins are processed asynchronously by the per-connection read loop.
	time.Sleep(100 * time.Millisecond)

	edit := []byte(`{"event":"note-edit","note_id":"n1","changes":{"title":"Updated"}}`)
	require.NoError(t, editor.Write(ctx, websocket.MessageText, edit))

	_, msg, err := viewer.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"update-note","changes":{"title":"Updated"}}`, string(msg))

	// Hanging up completes the close handshake cleanly.
	require.NoError(t, editor.Close(websocket.StatusNormalClosure, ""))
	require.NoError(t, viewer.Close(websocket.StatusNormalClosure, ""))
}
