package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"orbit-server/internal/match"
	"orbit-server/internal/metrics"
	"orbit-server/internal/repository"
)

const defaultCandidatePool = 50

// DiscoveryService arma los feeds de discovery: usuarios por compatibilidad
// completa, crews y missions por solapamiento de tags.
type DiscoveryService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	crews    repository.CrewRepository
	missions repository.MissionRepository
	ranker   *match.Ranker
	cache    MatchCache
	metrics  *metrics.Metrics
	poolSize int
}

func NewDiscoveryService(
	logger *zap.Logger,
	profiles repository.ProfileRepository,
	crews repository.CrewRepository,
	missions repository.MissionRepository,
	ranker *match.Ranker,
	cache MatchCache,
	m *metrics.Metrics,
	poolSize int,
) *DiscoveryService {
	if poolSize <= 0 {
		poolSize = defaultCandidatePool
	}
	return &DiscoveryService{
		logger:   logger,
		profiles: profiles,
		crews:    crews,
		missions: missions,
		ranker:   ranker,
		cache:    cache,
		metrics:  m,
		poolSize: poolSize,
	}
}

// SuggestedUsers devuelve el feed rankeado para el solicitante. Los
// diagnosticos de candidatos salteados solo salen de un calculo fresco;
// un hit de cache los omite.
func (s *DiscoveryService) SuggestedUsers(ctx context.Context, userID string, limit int) ([]match.RankedMatch, []match.SkippedCandidate, error) {
	if limit <= 0 || limit > match.DefaultResultCap {
		limit = match.DefaultResultCap
	}
	s.countRequest("users")

	if s.cache != nil {
		if feed, ok := s.cache.GetFeed(ctx, userID); ok {
			s.countCache("hit")
			if len(feed) > limit {
				feed = feed[:limit]
			}
			return feed, nil, nil
		}
		s.countCache("miss")
	}

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, err
	}

	pool, err := s.profiles.ListCandidates(ctx, s.poolSize)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	feed, skipped := s.ranker.RankProfiles(requester, pool, match.DefaultResultCap)
	s.observeRanking("users", time.Since(start), len(feed), len(skipped))

	for _, sk := range skipped {
		s.logger.Warn("candidate skipped",
			zap.String("candidate_id", sk.CandidateID),
			zap.String("reason", sk.Reason),
		)
	}

	if s.cache != nil {
		s.cache.SetFeed(ctx, userID, feed)
	}
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, skipped, nil
}

// SuggestedCrews rankea crews por Jaccard de tags contra los intereses.
func (s *DiscoveryService) SuggestedCrews(ctx context.Context, userID string, limit int) ([]match.RankedTag, error) {
	s.countRequest("crews")

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	crews, err := s.crews.List(ctx, s.poolSize)
	if err != nil {
		return nil, err
	}
	entities := make([]match.TagEntity, 0, len(crews))
	for _, c := range crews {
		if c.ID == "" || c.Name == "" {
			continue
		}
		entities = append(entities, match.TagEntity{ID: c.ID, Tags: c.Tags})
	}

	start := time.Now()
	ranked := s.ranker.RankTags(requester.Interests, entities, limit)
	s.observeRanking("crews", time.Since(start), len(ranked), 0)
	return ranked, nil
}

// SuggestedMissions rankea misiones futuras por Jaccard de tags.
func (s *DiscoveryService) SuggestedMissions(ctx context.Context, userID string, limit int) ([]match.RankedTag, error) {
	s.countRequest("missions")

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	missions, err := s.missions.ListUpcoming(ctx, time.Now().UTC(), s.poolSize)
	if err != nil {
		return nil, err
	}
	entities := make([]match.TagEntity, 0, len(missions))
	for _, m := range missions {
		if m.ID == "" || m.Title == "" {
			continue
		}
		entities = append(entities, match.TagEntity{ID: m.ID, Tags: m.Tags})
	}

	start := time.Now()
	ranked := s.ranker.RankTags(requester.Interests, entities, limit)
	s.observeRanking("missions", time.Since(start), len(ranked), 0)
	return ranked, nil
}

func (s *DiscoveryService) countRequest(kind string) {
	if s.metrics != nil {
		s.metrics.DiscoverRequests.WithLabelValues(kind).Inc()
	}
}

func (s *DiscoveryService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CacheHits.WithLabelValues(result).Inc()
	}
}

func (s *DiscoveryService) observeRanking(kind string, elapsed time.Duration, ranked, skipped int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RankingDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if kind == "users" {
		s.metrics.RankedCandidates.Observe(float64(ranked))
		s.metrics.SkippedCandidates.Add(float64(skipped))
	}
}
