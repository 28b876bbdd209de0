package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chess_backend/internal/logger"
	"chess_backend/internal/repository"
)

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Store.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("get user failed", "user_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users?skip=0&limit=10
func (h *Handler) ListUsers(c *gin.Context) {
	skip, limit := pagination(c)
	users, err := h.Store.Users.List(c.Request.Context(), skip, limit)
	if err != nil {
		logger.Error("list users failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return skip, limit
}
