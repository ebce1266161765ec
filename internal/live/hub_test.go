package live

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/catalog"
	"recipebook/internal/recipe"
)

type mockLoader struct {
	mu      sync.Mutex
	recipes []recipe.Recipe
	err     error
}

func (m *mockLoader) FetchAll(ctx context.Context) ([]recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]recipe.Recipe(nil), m.recipes...), nil
}

func (m *mockLoader) set(recipes []recipe.Recipe, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = recipes
	m.err = err
}

func testRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Title: "Spicy Soup", Category: "Seafood"},
		{ID: 2, Title: "Sweet Tart", Category: "Dessert"},
		{ID: 3, Title: "Pepper Soup", Category: "African"},
	}
}

func startServer(t *testing.T, loader catalog.Loader) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(loader, []string{"http://localhost:8081"}, catalog.WithDebounce(20*time.Millisecond))
	r := gin.New()
	r.GET("/ws", hub.Handler())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func recipeIDs(recipes []recipe.Recipe) []int64 {
	out := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestSession_InitialView(t *testing.T) {
	_, url := startServer(t, &mockLoader{recipes: testRecipes()})
	conn := dial(t, url)

	msg := readFrame(t, conn)
	assert.Equal(t, TypeView, msg.Type)
	assert.NotEmpty(t, msg.Session)
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, 3, msg.Count)
	assert.Equal(t, catalog.AllCategories, msg.Category)
	assert.Equal(t, []string{"All", "Seafood", "Vegetarian", "Dessert", "African"}, msg.Categories)
}

func TestSession_QueryAndCategory(t *testing.T) {
	_, url := startServer(t, &mockLoader{recipes: testRecipes()})
	conn := dial(t, url)
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeQuery, Value: "SOUP"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeCategory, Value: "African"}))

	var last ServerMessage
	for {
		last = readFrame(t, conn)
		require.Equal(t, TypeView, last.Type)
		if last.Query == "SOUP" && last.Category == "African" {
			break
		}
	}
	assert.Equal(t, []int64{3}, recipeIDs(last.Recipes))
	assert.Equal(t, 1, last.Count)
}

func TestSession_BadFrames(t *testing.T) {
	_, url := startServer(t, &mockLoader{recipes: testRecipes()})
	conn := dial(t, url)
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readFrame(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, "malformed message", msg.Message)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "shout"}))
	msg = readFrame(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Message, "shout")
	assert.Nil(t, msg.Snapshot)
}

func TestSession_LoadFailureThenReload(t *testing.T) {
	loader := &mockLoader{err: errors.New("database unavailable")}
	_, url := startServer(t, loader)
	conn := dial(t, url)

	msg := readFrame(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, "could not load recipes", msg.Message)

	loader.set(testRecipes(), nil)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeReload}))
	msg = readFrame(t, conn)
	assert.Equal(t, TypeView, msg.Type)
	assert.Equal(t, 3, msg.Count)
}

func TestHub_ReloadAll(t *testing.T) {
	loader := &mockLoader{recipes: testRecipes()}
	hub, url := startServer(t, loader)

	first := dial(t, url)
	second := dial(t, url)
	readFrame(t, first)
	readFrame(t, second)
	assert.Equal(t, 2, hub.Stats().Sessions)

	loader.set(append(testRecipes(), recipe.Recipe{ID: 4, Title: "Thai Curry", Category: "Thai"}), nil)
	n, err := hub.ReloadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readFrame(t, conn)
		assert.Equal(t, TypeView, msg.Type)
		assert.Equal(t, 4, msg.Count)
		assert.Contains(t, msg.Categories, "Thai")
	}

	loader.set(nil, errors.New("boom"))
	_, err = hub.ReloadAll(context.Background())
	assert.Error(t, err)
}

func TestHub_SessionRemovedOnDisconnect(t *testing.T) {
	hub, url := startServer(t, &mockLoader{recipes: testRecipes()})
	conn := dial(t, url)
	readFrame(t, conn)
	require.Equal(t, 1, hub.Stats().Sessions)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Stats().Sessions == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, url := startServer(t, &mockLoader{recipes: testRecipes()})

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://localhost:8081")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}
