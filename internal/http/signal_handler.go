package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orbit-server/internal/service"
)

// SignalHandler mantiene dependencias para signals y pods.
type SignalHandler struct {
	logger     *zap.Logger
	signalServ *service.SignalService
}

func NewSignalHandler(logger *zap.Logger, signalServ *service.SignalService) *SignalHandler {
	return &SignalHandler{
		logger:     logger,
		signalServ: signalServ,
	}
}

// Search maneja POST /signals/search.
func (h *SignalHandler) Search(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	signal, err := h.signalServ.SearchSignal(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCluster):
			c.JSON(http.StatusNotFound, gin.H{"error": "no compatible group found"})
			return
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		default:
			h.logger.Error("signal search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search signal"})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"signal": signal})
}

// Pending maneja GET /signals/pending.
func (h *SignalHandler) Pending(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	signals, err := h.signalServ.PendingSignals(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("pending signals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list signals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signals})
}

// Accept maneja POST /signals/:id/accept.
func (h *SignalHandler) Accept(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	signal, pod, err := h.signalServ.AcceptSignal(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
			return
		case errors.Is(err, service.ErrSignalExpired):
			c.JSON(http.StatusGone, gin.H{"error": "signal expired"})
			return
		case errors.Is(err, service.ErrSignalClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "signal already closed"})
			return
		case errors.Is(err, service.ErrNotInvited):
			c.JSON(http.StatusForbidden, gin.H{"error": "not invited"})
			return
		default:
			h.logger.Error("signal accept failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept signal"})
			return
		}
	}

	resp := gin.H{"signal": signal}
	if pod != nil {
		resp["pod"] = pod
	}
	c.JSON(http.StatusOK, resp)
}

// ActivePods maneja GET /pods/active.
func (h *SignalHandler) ActivePods(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pods, err := h.signalServ.ActivePods(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("active pods failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list pods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pods": pods})
}

// Reveal maneja POST /pods/:id/reveal.
func (h *SignalHandler) Reveal(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	infos, err := h.signalServ.RevealPod(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPodNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pod not found"})
			return
		case errors.Is(err, service.ErrNotPodMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a pod member"})
			return
		case errors.Is(err, service.ErrPodExpired):
			c.JSON(http.StatusGone, gin.H{"error": "pod expired"})
			return
		default:
			h.logger.Error("pod reveal failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reveal pod"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"contacts": infos})
}
