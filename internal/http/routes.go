package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chess_backend/internal/config"
	"chess_backend/internal/engine"
	"chess_backend/internal/http/handlers"
	"chess_backend/internal/http/middleware"
	"chess_backend/internal/repository"
	"chess_backend/internal/rules"
	"chess_backend/internal/ws"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	store := repository.NewStore(db)
	hub := ws.NewHub()
	dispatcher := ws.NewDispatcher(hub, store)
	processor := engine.NewProcessor(store, rules.New(), dispatcher)

	h := handlers.New(store, processor, handlers.HandlerConfig{
		MinTimeControl: cfg.MinTimeControl,
		MaxTimeControl: cfg.MaxTimeControl,
		MaxIncrement:   cfg.MaxIncrement,
	})
	healthHandler := handlers.NewHealthHandler(db, hub, version)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	moveRL := middleware.MoveRateLimit(cfg.MoveRateLimit, cfg.MoveRateWindow)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, moveRL)

	// Legacy /api routes for older clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, moveRL)

	// WebSocket subscriptions
	r.GET("/ws/:game_id", ws.HandleWS(hub, dispatcher, store, cfg.AllowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, moveRL gin.HandlerFunc) {
	api.GET("/users/:id", h.GetUser)
	api.GET("/users", h.ListUsers)

	api.POST("/games", h.CreateGame)
	api.GET("/games", h.ListGames)
	api.GET("/games/:id", h.GetGame)
	api.POST("/games/:id/join", h.JoinGame)
	api.POST("/games/:id/moves", moveRL, h.MakeMove)
	api.GET("/games/:id/moves", h.ListMoves)
	api.POST("/games/:id/resign", h.ResignGame)
}
