package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recipebook/internal/catalog"
	"recipebook/internal/featured"
	"recipebook/internal/live"
	"recipebook/internal/media"
	"recipebook/internal/profile"
	"recipebook/internal/recipe"
)

// RecipeStore defines the recipe reads the handlers need.
type RecipeStore interface {
	FetchAll(ctx context.Context) ([]recipe.Recipe, error)
	FetchByID(ctx context.Context, id int64) (*recipe.Recipe, error)
}

// Thumbnailer produces cached thumbnails of recipe images.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, recipeID int64, imageURL string) (string, error)
}

// LiveHub is the set of live search sessions.
type LiveHub interface {
	ReloadAll(ctx context.Context) (int, error)
	Stats() live.Stats
}

// Handler handles HTTP requests.
type Handler struct {
	RecipeStore RecipeStore
	Thumbnailer Thumbnailer
	LiveHub     LiveHub
	Rotation    featured.Rotation
	Now         func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(recipeStore RecipeStore, thumbnailer Thumbnailer, liveHub LiveHub) *Handler {
	return &Handler{
		RecipeStore: recipeStore,
		Thumbnailer: thumbnailer,
		LiveHub:     liveHub,
		Rotation:    featured.NewRotation(),
		Now:         time.Now,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/recipes", h.GetRecipes)
	r.POST("/recipes/reload", h.ReloadLive)
	r.GET("/recipes/:id", h.GetRecipe)
	r.GET("/recipes/:id/thumbnail", h.GetThumbnail)
	r.GET("/categories", h.GetCategories)
	r.GET("/featured", h.GetFeatured)
	r.GET("/profile", h.GetProfile)
}

// Health reports liveness and the number of live sessions.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.LiveHub.Stats().Sessions})
}

// GetRecipes handles requests to list recipes filtered by query and category.
func (h *Handler) GetRecipes(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", catalog.AllCategories)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.FetchAll(ctx)
	if err != nil {
		storeError(c, err)
		return
	}

	view := catalog.ComputeView(recipes, query, category)
	c.JSON(http.StatusOK, gin.H{
		"query":      query,
		"category":   category,
		"count":      len(view),
		"recipes":    view,
		"categories": catalog.DeriveCategories(recipes),
	})
}

// GetRecipe handles requests to retrieve a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, recipe.NewDetail(*r))
}

// GetThumbnail serves a resized copy of a recipe's image.
func (h *Handler) GetThumbnail(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	path, err := h.Thumbnailer.Thumbnail(ctx, r.ID, r.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrNoImage):
			c.String(http.StatusNotFound, "Recipe has no image")
		case errors.Is(err, media.ErrFetch):
			log.Printf("thumbnail fetch failed for recipe %d: %v", r.ID, err)
			c.String(http.StatusBadGateway, "Could not fetch recipe image")
		default:
			c.String(http.StatusInternalServerError, fmt.Sprintf("thumbnail err: %s", err.Error()))
		}
		return
	}

	c.File(path)
}

// GetCategories handles requests for the derived category list.
func (h *Handler) GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.FetchAll(ctx)
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": catalog.DeriveCategories(recipes)})
}

// GetFeatured returns the featured carousel state.
func (h *Handler) GetFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, h.Rotation.At(h.Now()))
}

// GetProfile returns the demo profile.
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, profile.Mock())
}

// ReloadLive makes every live search session refetch the recipes.
func (h *Handler) ReloadLive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	n, err := h.LiveHub.ReloadAll(ctx)
	if err != nil {
		storeError(c, err)
		return
	}

	log.Printf("Reloaded %d live sessions", n)
	c.JSON(http.StatusOK, gin.H{"sessions": n})
}

// lookup resolves the :id parameter to a recipe, writing the error
// response itself when it cannot.
func (h *Handler) lookup(c *gin.Context) (*recipe.Recipe, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Invalid recipe id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.RecipeStore.FetchByID(ctx, id)
	if err != nil {
		storeError(c, err)
		return nil, false
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return nil, false
	}
	return r, true
}

func storeError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
		return
	}
	log.Printf("database error: %v", err)
	c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
}
