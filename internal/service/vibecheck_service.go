package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
	"orbit-server/internal/metrics"
	"orbit-server/internal/repository"
)

var (
	ErrInvalidAnswer  = errors.New("answer does not match question table")
	ErrQuizIncomplete = errors.New("quiz incomplete")
)

// VibeCheckService maneja el ciclo de vida del quiz: respuestas parciales
// reanudables, completar (agregar y fijar el vector) o saltear.
type VibeCheckService struct {
	logger   *zap.Logger
	engine   *match.QuizEngine
	answers  repository.QuizAnswerRepository
	profiles repository.ProfileRepository
	cache    MatchCache
	metrics  *metrics.Metrics
}

func NewVibeCheckService(
	logger *zap.Logger,
	engine *match.QuizEngine,
	answers repository.QuizAnswerRepository,
	profiles repository.ProfileRepository,
	cache MatchCache,
	m *metrics.Metrics,
) *VibeCheckService {
	return &VibeCheckService{
		logger:   logger,
		engine:   engine,
		answers:  answers,
		profiles: profiles,
		cache:    cache,
		metrics:  m,
	}
}

// Questions devuelve la tabla de preguntas que sirve el cliente.
func (s *VibeCheckService) Questions() []domain.QuizQuestion {
	return s.engine.Questions()
}

// SubmitAnswer guarda una respuesta individual. Re-responder la misma
// pregunta pisa la respuesta anterior.
func (s *VibeCheckService) SubmitAnswer(ctx context.Context, userID string, answer domain.QuizAnswer) error {
	if !s.engine.ValidateAnswer(answer) {
		return ErrInvalidAnswer
	}
	return s.answers.UpsertAnswer(ctx, userID, answer)
}

// Progress informa cuantas preguntas tiene respondidas el usuario.
func (s *VibeCheckService) Progress(ctx context.Context, userID string) (answered, total int, err error) {
	stored, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return len(stored), s.engine.QuestionCount(), nil
}

// Complete agrega las respuestas guardadas, deriva el type code y fija el
// resultado en el perfil en una sola escritura. Con respuestas faltantes
// devuelve ErrQuizIncomplete y no toca nada.
func (s *VibeCheckService) Complete(ctx context.Context, userID string) (domain.VibeCheckResult, error) {
	stored, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return domain.VibeCheckResult{}, err
	}
	if !s.engine.IsComplete(stored) {
		return domain.VibeCheckResult{}, ErrQuizIncomplete
	}

	vector := s.engine.Aggregate(stored)
	typeCode := match.TypeCode(vector)
	vibe := domain.VibeCheckComplete(vector, typeCode)

	if err := s.profiles.UpdateVibeCheck(ctx, userID, vibe); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VibeCheckResult{}, ErrProfileNotFound
		}
		return domain.VibeCheckResult{}, err
	}

	// Las respuestas crudas ya cumplieron su funcion; un retake arranca
	// de cero.
	if err := s.answers.DeleteByUser(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warn("delete quiz answers failed", zap.Error(err), zap.String("user_id", userID))
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	if s.metrics != nil {
		s.metrics.QuizCompletions.Inc()
	}

	result, _ := vibe.Result()
	return result, nil
}

// Skip registra que el usuario decidio no hacer el quiz. El matching sigue
// funcionando con los 3 rasgos basicos del perfil.
func (s *VibeCheckService) Skip(ctx context.Context, userID string) error {
	if err := s.profiles.UpdateVibeCheck(ctx, userID, domain.VibeCheckSkip()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProfileNotFound
		}
		return err
	}
	if err := s.answers.DeleteByUser(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warn("delete quiz answers failed", zap.Error(err), zap.String("user_id", userID))
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return nil
}
