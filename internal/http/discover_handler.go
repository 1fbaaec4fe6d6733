package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orbit-server/internal/service"
)

// DiscoverHandler mantiene dependencias para los feeds de discovery.
type DiscoverHandler struct {
	logger       *zap.Logger
	discoverServ *service.DiscoveryService
}

func NewDiscoverHandler(logger *zap.Logger, discoverServ *service.DiscoveryService) *DiscoverHandler {
	return &DiscoverHandler{
		logger:       logger,
		discoverServ: discoverServ,
	}
}

// Users maneja GET /discover/users.
func (h *DiscoverHandler) Users(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	feed, skipped, err := h.discoverServ.SuggestedUsers(c.Request.Context(), claims.UserID, queryLimit(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("discover users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": feed, "skipped": skipped})
}

// Crews maneja GET /discover/crews.
func (h *DiscoverHandler) Crews(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ranked, err := h.discoverServ.SuggestedCrews(c.Request.Context(), claims.UserID, queryLimit(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("discover crews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"crews": ranked})
}

// Missions maneja GET /discover/missions.
func (h *DiscoverHandler) Missions(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ranked, err := h.discoverServ.SuggestedMissions(c.Request.Context(), claims.UserID, queryLimit(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("discover missions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": ranked})
}

// queryLimit parsea ?limit=; cero o invalido significa usar el default.
func queryLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
