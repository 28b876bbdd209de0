package handlers

import (
	"chess_backend/internal/engine"
	"chess_backend/internal/repository"
)

// HandlerConfig carries the game creation limits.
type HandlerConfig struct {
	MinTimeControl int
	MaxTimeControl int
	MaxIncrement   int
}

type Handler struct {
	Store     *repository.Store
	Processor *engine.Processor
	Limits    HandlerConfig
}

func New(store *repository.Store, processor *engine.Processor, limits HandlerConfig) *Handler {
	return &Handler{
		Store:     store,
		Processor: processor,
		Limits:    limits,
	}
}
