package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"chess_backend/internal/domain"
	"chess_backend/internal/engine"
	"chess_backend/internal/logger"
)

var uciPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

type createGameRequest struct {
	PlayerName  string `json:"player_name" binding:"required,min=1,max=50"`
	TimeControl int    `json:"time_control"`
	Increment   int    `json:"increment"`
}

type joinGameRequest struct {
	PlayerName string `json:"player_name" binding:"required,min=1,max=50"`
}

type moveRequest struct {
	Move     string `json:"move" binding:"required"`
	PlayerID string `json:"player_id" binding:"required"`
}

type resignRequest struct {
	PlayerID string `json:"player_id"`
}

// CreateGame handles POST /games
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_name is required"})
		return
	}
	if req.TimeControl == 0 {
		req.TimeControl = 600
	}
	if req.TimeControl < h.Limits.MinTimeControl || req.TimeControl > h.Limits.MaxTimeControl {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time_control out of range"})
		return
	}
	if req.Increment < 0 || req.Increment > h.Limits.MaxIncrement {
		c.JSON(http.StatusBadRequest, gin.H{"error": "increment out of range"})
		return
	}

	g, _, err := h.Processor.CreateGame(c.Request.Context(), req.PlayerName, req.TimeControl, req.Increment)
	if err != nil {
		logger.Error("create game failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetGame handles GET /games/:id
func (h *Handler) GetGame(c *gin.Context) {
	g, err := h.Store.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("get game failed", "game_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// ListGames handles GET /games?skip=0&limit=10&status=waiting
func (h *Handler) ListGames(c *gin.Context) {
	skip, limit := pagination(c)
	games, err := h.Store.Games.List(c.Request.Context(), skip, limit, c.Query("status"))
	if err != nil {
		logger.Error("list games failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

// JoinGame handles POST /games/:id/join
func (h *Handler) JoinGame(c *gin.Context) {
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_name is required"})
		return
	}

	_, user, err := h.Processor.Join(c.Request.Context(), c.Param("id"), req.PlayerName)
	if err != nil {
		h.gameError(c, "join game", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined game successfully", "player_id": user.ID})
}

// MakeMove handles POST /games/:id/moves
func (h *Handler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move and player_id are required"})
		return
	}
	if !uciPattern.MatchString(req.Move) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid move"})
		return
	}

	m, _, err := h.Processor.SubmitMove(c.Request.Context(), c.Param("id"), req.PlayerID, req.Move)
	if err != nil {
		h.gameError(c, "make move", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListMoves handles GET /games/:id/moves
func (h *Handler) ListMoves(c *gin.Context) {
	moves, err := h.Store.Moves.ListByGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("list moves failed", "game_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list moves"})
		return
	}
	if moves == nil {
		moves = []*domain.Move{}
	}
	c.JSON(http.StatusOK, moves)
}

// ResignGame handles POST /games/:id/resign?player_id=... (the id may
// also arrive in the body)
func (h *Handler) ResignGame(c *gin.Context) {
	playerID := c.Query("player_id")
	if playerID == "" {
		var req resignRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			playerID = req.PlayerID
		}
	}
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id is required"})
		return
	}

	if _, err := h.Processor.Resign(c.Request.Context(), c.Param("id"), playerID); err != nil {
		h.gameError(c, "resign game", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game resigned successfully"})
}

// gameError maps engine errors onto HTTP statuses.
func (h *Handler) gameError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, engine.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
	case errors.Is(err, engine.ErrNotPlayer):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrGameNotActive),
		errors.Is(err, engine.ErrGameNotWaiting),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrInvalidMove),
		errors.Is(err, engine.ErrGameFull),
		errors.Is(err, engine.ErrAlreadyInGame),
		errors.Is(err, engine.ErrTimeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(op+" failed", "game_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
