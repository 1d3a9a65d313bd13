package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recv(t *testing.T, s *Session) (string, bool) {
	t.Helper()
	select {
	case msg := <-s.Out():
		return string(msg), true
	default:
		return "", false
	}
}

func TestBroadcastReachesOtherRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	editor := NewSession()
	viewer := NewSession()
	elsewhere := NewSession()

	hub.Join("note-1", editor)
	hub.Join("note-1", viewer)
	hub.Join("note-2", elsewhere)

	hub.Broadcast("note-1", editor, []byte(`{"event":"update-note"}`))

	msg, ok := recv(t, viewer)
	assert.True(t, ok)
	assert.Equal(t, `{"event":"update-note"}`, msg)

	_, ok = recv(t, editor)
	assert.False(t, ok, "sender must not receive its own edit")
	_, ok = recv(t, elsewhere)
	assert.False(t, ok, "other rooms must not receive the edit")
}

func TestLeaveRemovesMembership(t *testing.T) {
	hub := NewHub()
	editor := NewSession()
	viewer := NewSession()

	hub.Join("note-1", editor)
	hub.Join("note-1", viewer)
	hub.Leave(viewer)

	hub.Broadcast("note-1", editor, []byte("x"))
	_, ok := recv(t, viewer)
	assert.False(t, ok)
}

func TestBroadcastSkipsFullSessions(t *testing.T) {
	hub := NewHub()
	editor := NewSession()
	slow := NewSession()
	hub.Join("note-1", editor)
	hub.Join("note-1", slow)

	// Overrun the buffer; sends must not block.
	for i := 0; i < sessionBuffer+5; i++ {
		hub.Broadcast("note-1", editor, []byte("edit"))
	}

	received := 0
	for {
		if _, ok := recv(t, slow); !ok {
			break
		}
		received++
	}
	assert.Equal(t, sessionBuffer, received)
}
