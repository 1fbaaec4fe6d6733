package match

import (
	"math"
	"testing"

	"orbit-server/internal/domain"
)

func newTestEngine(t *testing.T) *QuizEngine {
	t.Helper()
	engine, err := NewQuizEngine(VibeCheckQuestions())
	if err != nil {
		t.Fatalf("unexpected error building quiz engine: %v", err)
	}
	return engine
}

func intPtr(v int) *int { return &v }

// neutralAnswer devuelve la respuesta mas neutral posible para una pregunta:
// rating 4 o la opcion cuyos targets son todos 0.5.
func neutralAnswer(t *testing.T, q domain.QuizQuestion) domain.QuizAnswer {
	t.Helper()
	if q.Kind == domain.QuestionRating {
		return domain.QuizAnswer{QuestionID: q.ID, Rating: intPtr(4)}
	}
	for i, option := range q.Options {
		allNeutral := true
		for _, target := range option.Targets {
			if target.Target != 0.5 {
				allNeutral = false
				break
			}
		}
		if allNeutral {
			return domain.QuizAnswer{QuestionID: q.ID, OptionIndex: intPtr(i)}
		}
	}
	t.Fatalf("question %s has no neutral option", q.ID)
	return domain.QuizAnswer{}
}

func TestQuestionTableShape(t *testing.T) {
	questions := VibeCheckQuestions()
	if len(questions) != 22 {
		t.Fatalf("expected 22 questions, got %d", len(questions))
	}

	covered := make(map[domain.Dimension]bool)
	for _, q := range questions {
		switch q.Kind {
		case domain.QuestionScenario:
			if len(q.Options) < 2 {
				t.Fatalf("scenario %s has %d options", q.ID, len(q.Options))
			}
			for _, o := range q.Options {
				for _, target := range o.Targets {
					if target.Target < 0 || target.Target > 1 {
						t.Fatalf("scenario %s target out of range: %v", q.ID, target.Target)
					}
					covered[target.Dimension] = true
				}
			}
		case domain.QuestionRating:
			if q.Direction != 1 && q.Direction != -1 {
				t.Fatalf("rating %s has direction %d", q.ID, q.Direction)
			}
			covered[q.Dimension] = true
		default:
			t.Fatalf("question %s has unknown kind %q", q.ID, q.Kind)
		}
	}
	for _, d := range domain.VibeCheckDimensions {
		if !covered[d] {
			t.Fatalf("dimension %s has no questions", d)
		}
	}
}

func TestQuestionSetChecksumStable(t *testing.T) {
	a := QuestionSetChecksum(VibeCheckQuestions())
	b := QuestionSetChecksum(VibeCheckQuestions())
	if a == "" || a != b {
		t.Fatalf("expected stable non-empty checksum, got %q vs %q", a, b)
	}

	altered := VibeCheckQuestions()
	altered[0].Prompt = "something else"
	if QuestionSetChecksum(altered) == a {
		t.Fatalf("expected checksum to change when table changes")
	}
}

func TestNewQuizEngineRejectsBrokenTables(t *testing.T) {
	if _, err := NewQuizEngine(nil); err == nil {
		t.Fatalf("expected error for empty table")
	}
	if _, err := NewQuizEngine([]domain.QuizQuestion{{ID: "", Kind: domain.QuestionRating, Direction: 1}}); err == nil {
		t.Fatalf("expected error for question without id")
	}
	if _, err := NewQuizEngine([]domain.QuizQuestion{{ID: "x", Kind: domain.QuestionRating, Direction: 0}}); err == nil {
		t.Fatalf("expected error for rating without direction")
	}
}

func TestAggregateRatingMappingAndInversion(t *testing.T) {
	engine := newTestEngine(t)

	// q02 es rating directo sobre spontaneous_planner: rating 7 -> 1.0.
	answers := map[string]domain.QuizAnswer{
		"q02": {QuestionID: "q02", Rating: intPtr(7)},
	}
	vector := engine.Aggregate(answers)
	if got := vector[domain.DimSpontaneousPlanner]; got != 1.0 {
		t.Fatalf("expected 1.0 for rating 7, got %v", got)
	}
	if _, ok := vector[domain.DimActiveRelaxed]; ok {
		t.Fatalf("untouched dimension should stay absent")
	}

	// q18 es rating invertido sobre la misma dimension: rating 7 -> 0.0,
	// y el promedio con q02 debe dar 0.5.
	answers["q18"] = domain.QuizAnswer{QuestionID: "q18", Rating: intPtr(7)}
	vector = engine.Aggregate(answers)
	if got := vector[domain.DimSpontaneousPlanner]; math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected mean 0.5 after inverted answer, got %v", got)
	}
}

func TestAggregateScenarioTargets(t *testing.T) {
	engine := newTestEngine(t)

	// q10 aporta a dos dimensiones a la vez.
	answers := map[string]domain.QuizAnswer{
		"q10": {QuestionID: "q10", OptionIndex: intPtr(0)},
	}
	vector := engine.Aggregate(answers)
	if got := vector[domain.DimSpontaneousPlanner]; got != 0.1 {
		t.Fatalf("expected 0.1, got %v", got)
	}
	if got := vector[domain.DimAdventurousCautious]; got != 0.2 {
		t.Fatalf("expected 0.2, got %v", got)
	}
}

func TestAggregateIgnoresInvalidAnswers(t *testing.T) {
	engine := newTestEngine(t)

	answers := map[string]domain.QuizAnswer{
		"q01":     {QuestionID: "q01", OptionIndex: intPtr(99)}, // fuera de rango
		"q02":     {QuestionID: "q02", Rating: intPtr(0)},       // rating invalido
		"q09":     {QuestionID: "q09", Rating: intPtr(8)},       // rating invalido
		"q11":     {QuestionID: "q11"},                          // sin valor
		"unknown": {QuestionID: "unknown", Rating: intPtr(4)},   // pregunta inexistente
	}
	vector := engine.Aggregate(answers)
	if len(vector) != 0 {
		t.Fatalf("expected empty vector for all-invalid answers, got %v", vector)
	}
}

func TestIsComplete(t *testing.T) {
	engine := newTestEngine(t)

	answers := make(map[string]domain.QuizAnswer)
	for _, q := range engine.Questions() {
		answers[q.ID] = neutralAnswer(t, q)
	}
	if !engine.IsComplete(answers) {
		t.Fatalf("expected complete quiz")
	}

	delete(answers, "q22")
	if engine.IsComplete(answers) {
		t.Fatalf("expected incomplete quiz with one answer missing")
	}

	// Una respuesta invalida cuenta como no respondida.
	answers["q22"] = domain.QuizAnswer{QuestionID: "q22", Rating: intPtr(9)}
	if engine.IsComplete(answers) {
		t.Fatalf("expected invalid answer to leave quiz incomplete")
	}
}

func TestNeutralRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	answers := make(map[string]domain.QuizAnswer)
	for _, q := range engine.Questions() {
		answers[q.ID] = neutralAnswer(t, q)
	}
	vector := engine.Aggregate(answers)

	for _, d := range domain.VibeCheckDimensions {
		got, ok := vector[d]
		if !ok {
			t.Fatalf("dimension %s missing after full neutral quiz", d)
		}
		if math.Abs(got-0.5) > 1e-12 {
			t.Fatalf("dimension %s expected 0.5, got %v", d, got)
		}
	}
	if conviction := Conviction(vector); conviction != 0.0 {
		t.Fatalf("expected conviction 0.0 for neutral vector, got %v", conviction)
	}
}

func TestConvictionExtremes(t *testing.T) {
	decisive := make(domain.DimensionVector)
	for i, d := range domain.VibeCheckDimensions {
		if i%2 == 0 {
			decisive[d] = 0.0
		} else {
			decisive[d] = 1.0
		}
	}
	if got := Conviction(decisive); got != 1.0 {
		t.Fatalf("expected conviction 1.0, got %v", got)
	}

	// Vector ausente: todas las dimensiones se rellenan a neutral.
	if got := Conviction(domain.DimensionVector{}); got != 0.0 {
		t.Fatalf("expected conviction 0.0 for empty vector, got %v", got)
	}

	half := domain.DimensionVector{domain.DimIntrovertExtrovert: 1.0}
	want := 1.0 / float64(len(domain.VibeCheckDimensions))
	if got := Conviction(half); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected conviction %v, got %v", want, got)
	}
}

func TestPairConviction(t *testing.T) {
	neutral := domain.DimensionVector{}
	decisive := make(domain.DimensionVector)
	for _, d := range domain.VibeCheckDimensions {
		decisive[d] = 1.0
	}
	if got := PairConviction(neutral, decisive); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected pair conviction 0.5, got %v", got)
	}
}

func TestTypeCode(t *testing.T) {
	vector := domain.DimensionVector{
		domain.DimIntrovertExtrovert: 0.9, // E
		domain.DimSensingIntuition:   0.8, // N
		domain.DimThinkingFeeling:    0.7, // F
		domain.DimSpontaneousPlanner: 0.2, // P
	}
	if got := TypeCode(vector); got != "ENFP" {
		t.Fatalf("expected ENFP, got %q", got)
	}

	opposite := domain.DimensionVector{
		domain.DimIntrovertExtrovert: 0.1,
		domain.DimSensingIntuition:   0.2,
		domain.DimThinkingFeeling:    0.3,
		domain.DimSpontaneousPlanner: 0.8,
	}
	if got := TypeCode(opposite); got != "ISTJ" {
		t.Fatalf("expected ISTJ, got %q", got)
	}
}
