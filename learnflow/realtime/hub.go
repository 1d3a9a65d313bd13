// Package realtime implements the per-note edit relay: clients join a
// note's room and edit deltas are broadcast to the other members.
// Nothing is persisted and nothing is ordered across senders.
package realtime

import "sync"

const sessionBuffer = 16

// Session is one connected client. Outbound messages are drained from
// Out by the transport; a full buffer drops the message rather than
// blocking the broadcaster.
type Session struct {
	out chan []byte
}

func NewSession() *Session {
	return &Session{out: make(chan []byte, sessionBuffer)}
}

func (s *Session) Out() <-chan []byte {
	return s.out
}

// Hub is the process-scoped room registry, injected at startup.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]struct{})}
}

func (h *Hub) Join(noteID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[noteID]
	if !ok {
		room = make(map[*Session]struct{})
		h.rooms[noteID] = room
	}
	room[s] = struct{}{}
}

// Leave removes the session from every room; called on disconnect.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for noteID, room := range h.rooms {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, noteID)
		}
	}
}

// Broadcast relays msg to every room member except the sender.
// Fire-and-forget: slow members miss the message.
func (h *Hub) Broadcast(noteID string, from *Session, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for member := range h.rooms[noteID] {
		if member == from {
			continue
		}
		select {
		case member.out <- msg:
		default:
		}
	}
}
