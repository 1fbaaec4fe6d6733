package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
	"orbit-server/internal/service"
)

// QuizHandler mantiene dependencias para endpoints del vibe check.
type QuizHandler struct {
	logger   *zap.Logger
	quizServ *service.VibeCheckService
}

func NewQuizHandler(logger *zap.Logger, quizServ *service.VibeCheckService) *QuizHandler {
	return &QuizHandler{
		logger:   logger,
		quizServ: quizServ,
	}
}

// Questions maneja GET /quiz/questions.
func (h *QuizHandler) Questions(c *gin.Context) {
	questions := h.quizServ.Questions()
	c.JSON(http.StatusOK, gin.H{
		"version":   match.QuestionSetVersion,
		"checksum":  match.QuestionSetChecksum(questions),
		"questions": questions,
	})
}

// SubmitAnswers maneja POST /quiz/answers. Acepta un batch de respuestas;
// la primera invalida aborta el batch completo.
func (h *QuizHandler) SubmitAnswers(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Answers []domain.QuizAnswer `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quiz answers request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	for _, answer := range req.Answers {
		if err := h.quizServ.SubmitAnswer(c.Request.Context(), claims.UserID, answer); err != nil {
			if errors.Is(err, service.ErrInvalidAnswer) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer", "question_id": answer.QuestionID})
				return
			}
			h.logger.Error("submit answer failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save answers"})
			return
		}
	}

	answered, total, err := h.quizServ.Progress(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("quiz progress failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save answers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answered": answered, "total": total})
}

// Complete maneja POST /quiz/complete.
func (h *QuizHandler) Complete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.quizServ.Complete(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizIncomplete):
			c.JSON(http.StatusConflict, gin.H{"error": "quiz incomplete"})
			return
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		default:
			h.logger.Error("quiz complete failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete quiz"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Skip maneja POST /quiz/skip.
func (h *QuizHandler) Skip(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.quizServ.Skip(c.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("quiz skip failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not skip quiz"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "skipped"})
}
