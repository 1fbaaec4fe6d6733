package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/service"
)

// ProfileHandler mantiene dependencias para endpoints de perfiles.
type ProfileHandler struct {
	logger      *zap.Logger
	profileServ *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profileServ *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		logger:      logger,
		profileServ: profileServ,
	}
}

// GetMe maneja GET /profiles/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.profileServ.EnsureProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("get own profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "complete": profile.IsComplete()})
}

// UpdateMe maneja PUT /profiles/me.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name              string                   `json:"name" binding:"required"`
		Age               int                      `json:"age" binding:"required"`
		Bio               string                   `json:"bio"`
		Location          domain.Location          `json:"location"`
		Photos            []string                 `json:"photos"`
		Interests         []string                 `json:"interests"`
		Personality       domain.Personality       `json:"personality"`
		SocialPreferences domain.SocialPreferences `json:"social_preferences"`
		FriendshipGoals   []string                 `json:"friendship_goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.profileServ.UpdateProfile(c.Request.Context(), claims.UserID, service.UpdateProfileInput{
		DisplayName:       req.Name,
		Age:               req.Age,
		Bio:               req.Bio,
		Location:          req.Location,
		Photos:            req.Photos,
		Interests:         req.Interests,
		Personality:       req.Personality,
		SocialPreferences: req.SocialPreferences,
		FriendshipGoals:   req.FriendshipGoals,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAge), errors.Is(err, service.ErrInvalidTrait):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			h.logger.Error("profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "complete": profile.IsComplete()})
}

// GetByUserID maneja GET /profiles/:user_id.
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	userID := c.Param("user_id")
	profile, err := h.profileServ.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateContactInfo maneja PUT /contact-info.
func (h *ProfileHandler) UpdateContactInfo(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Instagram string `json:"instagram"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid contact info request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	info, err := h.profileServ.UpdateContactInfo(c.Request.Context(), claims.UserID, req.Instagram, req.Phone)
	if err != nil {
		h.logger.Error("contact info update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update contact info"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact_info": info})
}
