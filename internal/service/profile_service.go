package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/repository"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidTrait    = errors.New("personality trait out of range")
	ErrInvalidAge      = errors.New("age out of range")
)

// ProfileService coordina lecturas y escrituras de perfiles. Toda escritura
// invalida el feed cacheado del usuario: su score contra otros cambio.
type ProfileService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	contacts repository.ContactInfoRepository
	cache    MatchCache
}

func NewProfileService(logger *zap.Logger, profiles repository.ProfileRepository, contacts repository.ContactInfoRepository, cache MatchCache) *ProfileService {
	return &ProfileService{
		logger:   logger,
		profiles: profiles,
		contacts: contacts,
		cache:    cache,
	}
}

// UpdateProfileInput es el payload completo de PUT del perfil. Los campos
// del vibe check no se tocan por esta via: solo el flujo del quiz los muta.
type UpdateProfileInput struct {
	DisplayName       string
	Age               int
	Bio               string
	Location          domain.Location
	Photos            []string
	Interests         []string
	Personality       domain.Personality
	SocialPreferences domain.SocialPreferences
	FriendshipGoals   []string
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// EnsureProfile garantiza que el usuario tenga un perfil, creando el
// default si es la primera vez.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	profile = domain.DefaultProfile(userID)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.Profile, error) {
	if err := validateProfileInput(input); err != nil {
		return domain.Profile{}, err
	}

	existing, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	existing.DisplayName = strings.TrimSpace(input.DisplayName)
	existing.Age = input.Age
	existing.Bio = strings.TrimSpace(input.Bio)
	existing.Location = input.Location
	existing.Photos = input.Photos
	existing.Interests = normalizeTags(input.Interests)
	existing.Personality = input.Personality
	existing.SocialPreferences = input.SocialPreferences
	existing.FriendshipGoals = normalizeTags(input.FriendshipGoals)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Upsert(ctx, existing); err != nil {
		return domain.Profile{}, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return existing, nil
}

// UpdateContactInfo guarda la informacion revelable en pods.
func (s *ProfileService) UpdateContactInfo(ctx context.Context, userID, instagram, phone string) (domain.ContactInfo, error) {
	info := domain.ContactInfo{
		UserID:    userID,
		Instagram: strings.TrimSpace(instagram),
		Phone:     strings.TrimSpace(phone),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.contacts.Upsert(ctx, info); err != nil {
		return domain.ContactInfo{}, err
	}
	return info, nil
}

func validateProfileInput(input UpdateProfileInput) error {
	if input.Age < 13 || input.Age > 120 {
		return ErrInvalidAge
	}
	traits := []float64{
		input.Personality.IntrovertExtrovert,
		input.Personality.SpontaneousPlanner,
		input.Personality.ActiveRelaxed,
	}
	for _, v := range traits {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return ErrInvalidTrait
		}
	}
	return nil
}

// normalizeTags recorta espacios y descarta entradas vacias o duplicadas,
// preservando el orden de llegada.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
