// Package live runs interactive search sessions over websockets. Each
// connected client owns a catalog.Filter; the client sends query and
// category edits and receives the filtered view every time it is
// recomputed.
package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"recipebook/internal/catalog"
)

// Message types exchanged with clients.
const (
	TypeQuery    = "query"
	TypeCategory = "category"
	TypeReload   = "reload"
	TypeView     = "view"
	TypeError    = "error"
)

const writeWait = 5 * time.Second

// ClientMessage is a frame sent by a client.
type ClientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ServerMessage is a frame sent to a client. View frames carry the
// snapshot fields inline.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Message string `json:"message,omitempty"`
	*catalog.Snapshot
}

// Session is one connected client. Frames are queued by send and written
// by the session's own writer goroutine, so filter listeners and hub
// reloads never wait on the client's connection.
type Session struct {
	ID     string
	conn   *websocket.Conn
	filter *catalog.Filter
	loader catalog.Loader

	outMu  sync.Mutex
	outbox []ServerMessage
	wake   chan struct{}
	done   chan struct{}
}

func newSession(id string, conn *websocket.Conn, loader catalog.Loader, opts ...catalog.Option) *Session {
	s := &Session{
		ID:     id,
		conn:   conn,
		loader: loader,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	opts = append(opts, catalog.WithListener(s.sendView))
	s.filter = catalog.NewFilter(opts...)
	return s
}

func (s *Session) sendView(snap catalog.Snapshot) {
	s.send(ServerMessage{Type: TypeView, Session: s.ID, Snapshot: &snap})
}

func (s *Session) sendError(msg string) {
	s.send(ServerMessage{Type: TypeError, Session: s.ID, Message: msg})
}

// send queues msg for the writer. A view frame replaces a view frame
// still waiting at the tail of the queue; a client only needs the latest.
func (s *Session) send(msg ServerMessage) {
	s.outMu.Lock()
	if n := len(s.outbox); msg.Type == TypeView && n > 0 && s.outbox[n-1].Type == TypeView {
		s.outbox[n-1] = msg
	} else {
		s.outbox = append(s.outbox, msg)
	}
	s.outMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) takeOutbox() []ServerMessage {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	batch := s.outbox
	s.outbox = nil
	return batch
}

// writeLoop writes queued frames in order until done is closed.
func (s *Session) writeLoop(exited chan<- struct{}) {
	defer close(exited)
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}
		for _, msg := range s.takeOutbox() {
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("[live] session %s: write %s frame: %v", s.ID, msg.Type, err)
			}
		}
	}
}

func (s *Session) reload(ctx context.Context) {
	if err := catalog.Reload(ctx, s.filter, s.loader); err != nil {
		log.Printf("[live] session %s: %v", s.ID, err)
		s.sendError("could not load recipes")
	}
}

// run serves the session until the client disconnects.
func (s *Session) run(ctx context.Context) {
	writerExited := make(chan struct{})
	go s.writeLoop(writerExited)
	defer func() {
		s.filter.Close()
		close(s.done)
		<-writerExited
	}()

	s.reload(ctx)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] session %s: read: %v", s.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("malformed message")
			continue
		}

		switch msg.Type {
		case TypeQuery:
			s.filter.SetQuery(msg.Value)
		case TypeCategory:
			s.filter.SetCategory(msg.Value)
		case TypeReload:
			s.reload(ctx)
		default:
			s.sendError("unknown message type " + msg.Type)
		}
	}
}
