package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/recipe"
)

// idleSession has no connection and no writer, like a client that has
// stopped reading.
func idleSession(id string) *Session {
	return newSession(id, nil, &mockLoader{recipes: testRecipes()})
}

func TestSession_ViewFramesCoalesce(t *testing.T) {
	s := idleSession("s1")

	s.filter.Load(testRecipes())
	s.filter.Load(testRecipes()[:1])
	s.sendError("could not load recipes")
	s.filter.Load(testRecipes()[:2])
	s.filter.Load(testRecipes())

	queued := s.takeOutbox()
	require.Len(t, queued, 3)
	assert.Equal(t, TypeView, queued[0].Type)
	assert.Equal(t, 1, queued[0].Count)
	assert.Equal(t, TypeError, queued[1].Type)
	assert.Equal(t, TypeView, queued[2].Type)
	assert.Equal(t, 3, queued[2].Count)

	assert.Empty(t, s.takeOutbox())
}

func TestHub_ReloadAllDoesNotWaitOnClients(t *testing.T) {
	loader := &mockLoader{recipes: testRecipes()}
	hub := NewHub(loader, nil)
	stalled := idleSession("stalled")
	hub.add(stalled)

	loader.set(append(testRecipes(), recipe.Recipe{ID: 4, Title: "Thai Curry", Category: "Thai"}), nil)

	done := make(chan int, 1)
	go func() {
		n, err := hub.ReloadAll(context.Background())
		assert.NoError(t, err)
		done <- n
	}()

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("ReloadAll blocked on a client that is not reading")
	}

	queued := stalled.takeOutbox()
	require.Len(t, queued, 1)
	assert.Equal(t, 4, queued[0].Count)
}
