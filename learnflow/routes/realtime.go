package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"learnflow/learnflow/realtime"
	"learnflow/learnflow/utils/logging"

	"github.com/coder/websocket"
)

// clientEvent is what editors send: join-note {note_id} or
// note-edit {note_id, changes}.
type clientEvent struct {
	Event   string          `json:"event"`
	NoteID  string          `json:"note_id"`
	Changes json.RawMessage `json:"changes"`
}

type updateEvent struct {
	Event   string          `json:"event"`
	Changes json.RawMessage `json:"changes"`
}

// RealtimeRoutes attaches the websocket edit relay. Join a note's room,
// send edits, receive other members' edits; connection teardown leaves
// all rooms.
func RealtimeRoutes(hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		sess := realtime.NewSession()
		defer hub.Leave(sess)

		// Writer: drain relayed messages to this client.
		writeCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-sess.Out():
					if err := conn.Write(writeCtx, websocket.MessageText, msg); err != nil {
						return
					}
				}
			}
		}()

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				// A close frame or EOF is the client hanging up; complete
				// the handshake cleanly instead of reporting a failure.
				if websocket.CloseStatus(err) != -1 || errors.Is(err, io.EOF) {
					conn.Close(websocket.StatusNormalClosure, "")
				}
				return
			}
			if typ != websocket.MessageText {
				continue
			}
			var ev clientEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
				continue
			}
			switch ev.Event {
			case "join-note":
				if ev.NoteID != "" {
					hub.Join(ev.NoteID, sess)
				}
			case "note-edit":
				if ev.NoteID == "" {
					continue
				}
				msg, err := json.Marshal(updateEvent{Event: "update-note", Changes: ev.Changes})
				if err != nil {
					logging.ErrorLogger.Error("relay marshal error")
					continue
				}
				hub.Broadcast(ev.NoteID, sess, msg)
			}
		}
	}
}
