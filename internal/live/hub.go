package live

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"recipebook/internal/catalog"
)

// Hub tracks the live sessions.
type Hub struct {
	loader   catalog.Loader
	opts     []catalog.Option
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// Stats reports hub usage.
type Stats struct {
	Sessions int `json:"sessions"`
}

// NewHub creates a hub whose sessions load recipes from loader. Browser
// clients are accepted only from allowOrigins; requests without an Origin
// header are always accepted.
func NewHub(loader catalog.Loader, allowOrigins []string, opts ...catalog.Option) *Hub {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = true
	}

	return &Hub{
		loader: loader,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		sessions: make(map[string]*Session),
	}
}

// Handler upgrades the request to a websocket and serves a session on it.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[live] upgrade failed: %v", err)
			return
		}

		s := newSession(uuid.NewString(), ws, h.loader, h.opts...)
		h.add(s)
		log.Printf("[live] session %s connected", s.ID)

		s.run(c.Request.Context())

		h.remove(s)
		log.Printf("[live] session %s disconnected", s.ID)
	}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	_ = s.conn.Close()
}

func (h *Hub) snapshot() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// Stats returns the current session count.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Sessions: len(h.sessions)}
}

// ReloadAll fetches the collection once and loads it into every session.
// On a fetch error no session is touched. It returns the number of
// sessions reloaded.
func (h *Hub) ReloadAll(ctx context.Context) (int, error) {
	recipes, err := h.loader.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load recipes: %w", err)
	}

	sessions := h.snapshot()
	for _, s := range sessions {
		s.filter.Load(recipes)
	}
	return len(sessions), nil
}
