package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
)

type mockQuizAnswerRepo struct {
	byUser map[string]map[string]domain.QuizAnswer
}

func newMockQuizAnswerRepo() *mockQuizAnswerRepo {
	return &mockQuizAnswerRepo{byUser: make(map[string]map[string]domain.QuizAnswer)}
}

func (m *mockQuizAnswerRepo) UpsertAnswer(_ context.Context, userID string, answer domain.QuizAnswer) error {
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[string]domain.QuizAnswer)
	}
	m.byUser[userID][answer.QuestionID] = answer
	return nil
}

func (m *mockQuizAnswerRepo) ListByUser(_ context.Context, userID string) (map[string]domain.QuizAnswer, error) {
	out := make(map[string]domain.QuizAnswer, len(m.byUser[userID]))
	for id, a := range m.byUser[userID] {
		out[id] = a
	}
	return out, nil
}

func (m *mockQuizAnswerRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(m.byUser, userID)
	return nil
}

func newVibeCheckFixture(t *testing.T) (*VibeCheckService, *mockQuizAnswerRepo, *mockProfileRepo, *mockMatchCache) {
	t.Helper()
	engine, err := match.NewQuizEngine(match.VibeCheckQuestions())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	answers := newMockQuizAnswerRepo()
	profiles := newMockProfileRepo()
	cache := newMockMatchCache()
	svc := NewVibeCheckService(zap.NewNop(), engine, answers, profiles, cache, nil)
	return svc, answers, profiles, cache
}

// answerAllNeutral responde toda la tabla con la opcion del medio.
func answerAllNeutral(t *testing.T, svc *VibeCheckService, userID string) {
	t.Helper()
	for _, q := range svc.Questions() {
		answer := domain.QuizAnswer{QuestionID: q.ID}
		switch q.Kind {
		case domain.QuestionScenario:
			idx := 1
			answer.OptionIndex = &idx
		case domain.QuestionRating:
			r := 4
			answer.Rating = &r
		}
		if err := svc.SubmitAnswer(context.Background(), userID, answer); err != nil {
			t.Fatalf("submit %s: %v", q.ID, err)
		}
	}
}

func TestSubmitAnswerValidates(t *testing.T) {
	svc, _, _, _ := newVibeCheckFixture(t)

	unknown := domain.QuizAnswer{QuestionID: "q99"}
	if err := svc.SubmitAnswer(context.Background(), "u1", unknown); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for unknown question, got %v", err)
	}

	badRating := 9
	invalid := domain.QuizAnswer{QuestionID: "q02", Rating: &badRating}
	if err := svc.SubmitAnswer(context.Background(), "u1", invalid); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for out-of-scale rating, got %v", err)
	}

	ok := 4
	valid := domain.QuizAnswer{QuestionID: "q02", Rating: &ok}
	if err := svc.SubmitAnswer(context.Background(), "u1", valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answered, total, err := svc.Progress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if answered != 1 || total != 22 {
		t.Fatalf("expected 1/22 answered, got %d/%d", answered, total)
	}
}

func TestCompleteRequiresAllAnswers(t *testing.T) {
	svc, _, profiles, _ := newVibeCheckFixture(t)
	profiles.profiles["u1"] = seedProfile("u1")

	r := 4
	if err := svc.SubmitAnswer(context.Background(), "u1", domain.QuizAnswer{QuestionID: "q02", Rating: &r}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Complete(context.Background(), "u1"); !errors.Is(err, ErrQuizIncomplete) {
		t.Fatalf("expected ErrQuizIncomplete, got %v", err)
	}
	if profiles.profiles["u1"].VibeCheck.Status != domain.VibeCheckNotTaken {
		t.Fatalf("incomplete quiz must not touch the profile")
	}
}

func TestCompleteNeutralRun(t *testing.T) {
	svc, answers, profiles, cache := newVibeCheckFixture(t)
	profiles.profiles["u1"] = seedProfile("u1")
	cache.feeds["u1"] = nil

	answerAllNeutral(t, svc, "u1")
	result, err := svc.Complete(context.Background(), "u1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	for _, d := range domain.VibeCheckDimensions {
		if result.Dimensions[d] != 0.5 {
			t.Fatalf("expected neutral 0.5 for %s, got %v", d, result.Dimensions[d])
		}
	}
	if result.TypeCode != "ENFJ" {
		t.Fatalf("unexpected type code for neutral vector: %s", result.TypeCode)
	}

	stored := profiles.profiles["u1"].VibeCheck
	if stored.Status != domain.VibeCheckCompleted {
		t.Fatalf("expected completed status, got %s", stored.Status)
	}
	if len(answers.byUser["u1"]) != 0 {
		t.Fatalf("expected stored answers to be cleared after completion")
	}
	if len(cache.invalidated) == 0 {
		t.Fatalf("expected feed cache invalidation")
	}
}

func TestCompleteUnknownProfile(t *testing.T) {
	svc, _, _, _ := newVibeCheckFixture(t)
	answerAllNeutral(t, svc, "ghost")
	if _, err := svc.Complete(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSkipQuiz(t *testing.T) {
	svc, answers, profiles, cache := newVibeCheckFixture(t)
	profiles.profiles["u1"] = seedProfile("u1")

	r := 4
	_ = svc.SubmitAnswer(context.Background(), "u1", domain.QuizAnswer{QuestionID: "q02", Rating: &r})

	if err := svc.Skip(context.Background(), "u1"); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if profiles.profiles["u1"].VibeCheck.Status != domain.VibeCheckSkipped {
		t.Fatalf("expected skipped status")
	}
	if len(answers.byUser["u1"]) != 0 {
		t.Fatalf("expected stored answers to be cleared on skip")
	}
	if len(cache.invalidated) == 0 {
		t.Fatalf("expected feed cache invalidation on skip")
	}
}
