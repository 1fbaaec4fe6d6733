package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
	"orbit-server/internal/service"
)

type memProfileRepo struct {
	profiles map[string]domain.Profile
}

func (m *memProfileRepo) Upsert(_ context.Context, profile domain.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID string) (domain.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *memProfileRepo) ListCandidates(_ context.Context, limit int) ([]domain.Profile, error) {
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []domain.Profile
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, m.profiles[id])
	}
	return out, nil
}

func (m *memProfileRepo) UpdateVibeCheck(_ context.Context, userID string, vibe domain.VibeCheck) error {
	p, ok := m.profiles[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.VibeCheck = vibe
	m.profiles[userID] = p
	return nil
}

type memCrewRepo struct{}

func (memCrewRepo) GetByID(_ context.Context, _ string) (domain.Crew, error) {
	return domain.Crew{}, pgx.ErrNoRows
}

func (memCrewRepo) List(_ context.Context, _ int) ([]domain.Crew, error) {
	return nil, nil
}

type memMissionRepo struct{}

func (memMissionRepo) GetByID(_ context.Context, _ string) (domain.Mission, error) {
	return domain.Mission{}, pgx.ErrNoRows
}

func (memMissionRepo) ListUpcoming(_ context.Context, _ time.Time, _ int) ([]domain.Mission, error) {
	return nil, nil
}

func discoverTestProfile(userID string) domain.Profile {
	p := domain.DefaultProfile(userID)
	p.DisplayName = "User " + userID
	p.Interests = []string{"Hiking", "Coffee", "Gaming"}
	p.FriendshipGoals = []string{"Activity partners"}
	p.SocialPreferences.PreferredTimes = []string{"Weekends"}
	return p
}

func setupDiscoverRouter(repo *memProfileRepo, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDiscoveryService(zap.NewNop(), repo, memCrewRepo{}, memMissionRepo{}, match.NewRanker(), nil, nil, 0)
	h := NewDiscoverHandler(zap.NewNop(), svc)

	r := gin.New()
	group := r.Group("")
	if authed {
		group.Use(func(c *gin.Context) {
			c.Set(authClaimsKey, service.Claims{UserID: "me"})
			c.Next()
		})
	}
	group.GET("/discover/users", h.Users)
	return r
}

func TestDiscoverUsersHandler(t *testing.T) {
	repo := &memProfileRepo{profiles: map[string]domain.Profile{
		"me":   discoverTestProfile("me"),
		"twin": discoverTestProfile("twin"),
	}}
	far := discoverTestProfile("far")
	far.Interests = []string{"Opera"}
	far.FriendshipGoals = []string{"Pen pals"}
	repo.profiles["far"] = far

	r := setupDiscoverRouter(repo, true)
	req := httptest.NewRequest(http.MethodGet, "/discover/users", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Matches []match.RankedMatch `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Matches) != 2 || resp.Matches[0].CandidateID != "twin" {
		t.Fatalf("unexpected feed: %+v", resp.Matches)
	}
}

func TestDiscoverUsersHandlerRequiresAuth(t *testing.T) {
	repo := &memProfileRepo{profiles: map[string]domain.Profile{}}
	r := setupDiscoverRouter(repo, false)

	req := httptest.NewRequest(http.MethodGet, "/discover/users", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDiscoverUsersHandlerUnknownRequester(t *testing.T) {
	repo := &memProfileRepo{profiles: map[string]domain.Profile{}}
	r := setupDiscoverRouter(repo, true)

	req := httptest.NewRequest(http.MethodGet, "/discover/users", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
