package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
	"orbit-server/internal/metrics"
	"orbit-server/internal/repository"
)

var (
	ErrNoCluster      = errors.New("no compatible cluster found")
	ErrSignalNotFound = errors.New("signal not found")
	ErrSignalExpired  = errors.New("signal expired")
	ErrSignalClosed   = errors.New("signal already closed")
	ErrNotInvited     = errors.New("user not invited to signal")
	ErrPodNotFound    = errors.New("pod not found")
	ErrNotPodMember   = errors.New("user not a pod member")
	ErrPodExpired     = errors.New("pod expired")
)

// SignalService maneja el ciclo signal -> aceptaciones -> pod -> reveal.
type SignalService struct {
	logger   *zap.Logger
	signals  repository.SignalRepository
	pods     repository.PodRepository
	profiles repository.ProfileRepository
	contacts repository.ContactInfoRepository
	ranker   *match.Ranker
	metrics  *metrics.Metrics
	poolSize int
}

func NewSignalService(
	logger *zap.Logger,
	signals repository.SignalRepository,
	pods repository.PodRepository,
	profiles repository.ProfileRepository,
	contacts repository.ContactInfoRepository,
	ranker *match.Ranker,
	m *metrics.Metrics,
	poolSize int,
) *SignalService {
	if poolSize <= 0 {
		poolSize = defaultCandidatePool
	}
	return &SignalService{
		logger:   logger,
		signals:  signals,
		pods:     pods,
		profiles: profiles,
		contacts: contacts,
		ranker:   ranker,
		metrics:  m,
		poolSize: poolSize,
	}
}

// SearchSignal corre cluster discovery para el solicitante y, si encuentra
// grupo, crea la invitacion para el resto de los miembros.
func (s *SignalService) SearchSignal(ctx context.Context, userID string) (domain.Signal, error) {
	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Signal{}, ErrProfileNotFound
		}
		return domain.Signal{}, err
	}

	candidates, err := s.profiles.ListCandidates(ctx, s.poolSize)
	if err != nil {
		return domain.Signal{}, err
	}

	pool := make(map[string]domain.Profile, len(candidates)+1)
	for _, p := range candidates {
		pool[p.UserID] = p
	}
	pool[requester.UserID] = requester

	members := s.ranker.FindCluster(userID, pool, match.DefaultClusterConfig())
	if members == nil {
		return domain.Signal{}, ErrNoCluster
	}

	targets := make([]string, 0, len(members)-1)
	for _, id := range members {
		if id != userID {
			targets = append(targets, id)
		}
	}

	now := time.Now().UTC()
	signal := domain.Signal{
		ID:            uuid.NewString(),
		CreatorID:     userID,
		TargetUserIDs: targets,
		Status:        domain.SignalStatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(domain.SignalTTL),
	}
	if err := s.signals.Create(ctx, signal); err != nil {
		return domain.Signal{}, err
	}
	if s.metrics != nil {
		s.metrics.SignalsCreated.Inc()
	}
	s.logger.Info("signal created",
		zap.String("signal_id", signal.ID),
		zap.String("creator_id", userID),
		zap.Int("invitees", len(targets)),
	)
	return signal, nil
}

// PendingSignals lista las invitaciones vigentes donde el usuario es
// destinatario.
func (s *SignalService) PendingSignals(ctx context.Context, userID string) ([]domain.Signal, error) {
	return s.signals.ListPendingForUser(ctx, userID)
}

// AcceptSignal registra una aceptacion. Cuando acepta el ultimo invitado,
// la signal se cierra y nace el pod. Aceptar dos veces es idempotente.
func (s *SignalService) AcceptSignal(ctx context.Context, signalID, userID string) (domain.Signal, *domain.Pod, error) {
	signal, err := s.signals.GetByID(ctx, signalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Signal{}, nil, ErrSignalNotFound
		}
		return domain.Signal{}, nil, err
	}

	if signal.Status != domain.SignalStatusPending {
		return domain.Signal{}, nil, ErrSignalClosed
	}
	if time.Now().UTC().After(signal.ExpiresAt) {
		signal.Status = domain.SignalStatusExpired
		if err := s.signals.RecordAcceptance(ctx, signal); err != nil {
			return domain.Signal{}, nil, err
		}
		return domain.Signal{}, nil, ErrSignalExpired
	}

	invited := false
	for _, id := range signal.TargetUserIDs {
		if id == userID {
			invited = true
			break
		}
	}
	if !invited {
		return domain.Signal{}, nil, ErrNotInvited
	}

	already := false
	for _, id := range signal.AcceptedUserIDs {
		if id == userID {
			already = true
			break
		}
	}
	if !already {
		signal.AcceptedUserIDs = append(signal.AcceptedUserIDs, userID)
		if s.metrics != nil {
			s.metrics.SignalsAccepted.Inc()
		}
	}

	var pod *domain.Pod
	if signal.AllAccepted() {
		signal.Status = domain.SignalStatusAccepted
		now := time.Now().UTC()
		created := domain.Pod{
			ID:        uuid.NewString(),
			SignalID:  signal.ID,
			MemberIDs: append([]string{signal.CreatorID}, signal.TargetUserIDs...),
			CreatedAt: now,
			ExpiresAt: now.Add(domain.PodTTL),
		}
		if err := s.pods.Create(ctx, created); err != nil {
			return domain.Signal{}, nil, err
		}
		pod = &created
		if s.metrics != nil {
			s.metrics.PodsFormed.Inc()
		}
		s.logger.Info("pod formed",
			zap.String("pod_id", created.ID),
			zap.String("signal_id", signal.ID),
			zap.Int("members", len(created.MemberIDs)),
		)
	}

	if err := s.signals.RecordAcceptance(ctx, signal); err != nil {
		return domain.Signal{}, nil, err
	}
	return signal, pod, nil
}

// ActivePods lista los pods vigentes del usuario.
func (s *SignalService) ActivePods(ctx context.Context, userID string) ([]domain.Pod, error) {
	return s.pods.ListActiveForUser(ctx, userID)
}

// RevealPod marca el pod como revelado y devuelve la informacion de
// contacto de los miembros que la cargaron.
func (s *SignalService) RevealPod(ctx context.Context, podID, userID string) ([]domain.ContactInfo, error) {
	pod, err := s.pods.GetByID(ctx, podID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPodNotFound
		}
		return nil, err
	}

	member := false
	for _, id := range pod.MemberIDs {
		if id == userID {
			member = true
			break
		}
	}
	if !member {
		return nil, ErrNotPodMember
	}
	if time.Now().UTC().After(pod.ExpiresAt) {
		return nil, ErrPodExpired
	}

	if !pod.Revealed {
		if err := s.pods.MarkRevealed(ctx, pod.ID); err != nil {
			return nil, err
		}
	}

	infos := make([]domain.ContactInfo, 0, len(pod.MemberIDs))
	for _, id := range pod.MemberIDs {
		info, err := s.contacts.GetByUserID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ExpireSignals marca las invitaciones vencidas; pensado para correr
// periodicamente.
func (s *SignalService) ExpireSignals(ctx context.Context) (int64, error) {
	n, err := s.signals.ExpireOverdue(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("signals expired", zap.Int64("count", n))
	}
	return n, nil
}
