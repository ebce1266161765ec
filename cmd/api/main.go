package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recipebook/internal/api"
	"recipebook/internal/catalog"
	"recipebook/internal/config"
	"recipebook/internal/live"
	"recipebook/internal/media"
	"recipebook/internal/recipe"
)

func main() {
	configPath := config.DefaultPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	dbStore, err := recipe.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("error creating %s store: %w", cfg.DatabaseDriver, err))
	}
	defer dbStore.Close()

	thumbnailer := media.NewThumbnailer(&http.Client{Timeout: 15 * time.Second}, cfg.ThumbnailDir, cfg.ThumbnailWidth)
	hub := live.NewHub(dbStore, cfg.AllowOrigins, catalog.WithDebounce(cfg.Debounce()))

	r := setupRouter(cfg, api.NewHandler(dbStore, thumbnailer, hub), hub)

	log.Printf("recipebook listening on %s (%s)", cfg.ListenAddr, cfg.DatabaseDriver)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupRouter(cfg config.Config, handler *api.Handler, hub *live.Hub) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(r)
	r.GET("/ws", hub.Handler())
	return r
}
