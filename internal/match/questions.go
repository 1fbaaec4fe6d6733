package match

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"orbit-server/internal/domain"
)

// QuestionSetVersion identifica la tabla canonica del vibe check. Cliente y
// servidor deben puntuar contra la misma version; un mismatch se detecta
// comparando version + checksum.
const QuestionSetVersion = "vibe-check-v1"

func opt(label string, targets ...domain.DimensionTarget) domain.QuizOption {
	return domain.QuizOption{Label: label, Targets: targets}
}

func tgt(d domain.Dimension, v float64) domain.DimensionTarget {
	return domain.DimensionTarget{Dimension: d, Target: v}
}

func scenario(id, prompt string, options ...domain.QuizOption) domain.QuizQuestion {
	return domain.QuizQuestion{ID: id, Prompt: prompt, Kind: domain.QuestionScenario, Options: options}
}

func rating(id, prompt string, dim domain.Dimension, direction int) domain.QuizQuestion {
	return domain.QuizQuestion{ID: id, Prompt: prompt, Kind: domain.QuestionRating, Dimension: dim, Direction: direction}
}

// vibeCheckQuestions es la tabla estatica de 22 preguntas. Es data inmutable:
// QuizEngine la copia al construirse y nunca la muta. Cada opcion de escenario
// lleva uno o mas targets (dimension, valor en [0,1]); cada rating mapea la
// escala 1-7 a [0,1] sobre una sola dimension.
var vibeCheckQuestions = []domain.QuizQuestion{
	scenario("q01", "It's Friday night. What sounds best?",
		opt("A quiet night in with one close friend", tgt(domain.DimIntrovertExtrovert, 0.1)),
		opt("Dinner with a few people, home by midnight", tgt(domain.DimIntrovertExtrovert, 0.5)),
		opt("A party where I barely know anyone", tgt(domain.DimIntrovertExtrovert, 0.9)),
	),
	rating("q02", "I plan my week in advance.", domain.DimSpontaneousPlanner, +1),
	scenario("q03", "Your ideal Saturday looks like:",
		opt("An early hike or a pickup game", tgt(domain.DimActiveRelaxed, 0.1)),
		opt("A walk, then coffee and errands", tgt(domain.DimActiveRelaxed, 0.5)),
		opt("Couch, snacks, and a long series", tgt(domain.DimActiveRelaxed, 0.9)),
	),
	scenario("q04", "A new restaurant opens with a menu you can't pronounce.",
		opt("Book a table tonight", tgt(domain.DimAdventurousCautious, 0.1)),
		opt("Wait for a friend's review first", tgt(domain.DimAdventurousCautious, 0.5)),
		opt("Stick with my usual place", tgt(domain.DimAdventurousCautious, 0.9)),
	),
	rating("q05", "I keep my feelings to myself until I know someone well.", domain.DimExpressiveReserved, +1),
	scenario("q06", "You get a big project with a loose deadline.",
		opt("Split it up alone and deliver my part", tgt(domain.DimIndependentCollaborative, 0.1)),
		opt("Mix of solo work and check-ins", tgt(domain.DimIndependentCollaborative, 0.5)),
		opt("Get everyone in a room and build it together", tgt(domain.DimIndependentCollaborative, 0.9)),
	),
	scenario("q07", "When learning something new, you start with:",
		opt("Concrete examples and hands-on practice", tgt(domain.DimSensingIntuition, 0.1)),
		opt("A bit of theory, a bit of practice", tgt(domain.DimSensingIntuition, 0.5)),
		opt("The big picture and where it could lead", tgt(domain.DimSensingIntuition, 0.9)),
	),
	scenario("q08", "A friend asks for advice on a hard decision. You:",
		opt("Lay out the pros and cons objectively", tgt(domain.DimThinkingFeeling, 0.1)),
		opt("Weigh the facts, but ask how they feel", tgt(domain.DimThinkingFeeling, 0.5)),
		opt("Focus on what would make them happiest", tgt(domain.DimThinkingFeeling, 0.9)),
	),
	rating("q09", "Being around new people gives me energy.", domain.DimIntrovertExtrovert, +1),
	scenario("q10", "A free weekend appears out of nowhere. You:",
		opt("Jump in the car and figure it out on the road",
			tgt(domain.DimSpontaneousPlanner, 0.1), tgt(domain.DimAdventurousCautious, 0.2)),
		opt("Sketch a loose plan with room to improvise",
			tgt(domain.DimSpontaneousPlanner, 0.5), tgt(domain.DimAdventurousCautious, 0.5)),
		opt("Build an itinerary with reservations",
			tgt(domain.DimSpontaneousPlanner, 0.9), tgt(domain.DimAdventurousCautious, 0.8)),
	),
	rating("q11", "A quiet day in beats a packed schedule.", domain.DimActiveRelaxed, +1),
	rating("q12", "I think things through carefully before taking a risk.", domain.DimAdventurousCautious, +1),
	rating("q13", "People always know how I'm feeling.", domain.DimExpressiveReserved, -1),
	rating("q14", "I do my best work as part of a team.", domain.DimIndependentCollaborative, +1),
	rating("q15", "I care more about possibilities than practical details.", domain.DimSensingIntuition, +1),
	rating("q16", "When my head and my heart disagree, my heart usually wins.", domain.DimThinkingFeeling, +1),
	rating("q17", "I need alone time to recharge after socializing.", domain.DimIntrovertExtrovert, -1),
	rating("q18", "I prefer deciding things at the last minute.", domain.DimSpontaneousPlanner, -1),
	rating("q19", "I get restless if I sit still for too long.", domain.DimActiveRelaxed, -1),
	rating("q20", "I'll try almost anything once.", domain.DimAdventurousCautious, -1),
	rating("q21", "I'd rather figure things out on my own than ask for help.", domain.DimIndependentCollaborative, -1),
	rating("q22", "I make decisions with logic first, feelings second.", domain.DimThinkingFeeling, -1),
}

// VibeCheckQuestions devuelve una copia de la tabla canonica.
func VibeCheckQuestions() []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(vibeCheckQuestions))
	copy(out, vibeCheckQuestions)
	return out
}

// QuestionSetChecksum calcula un hash estable de la tabla para detectar
// divergencias entre el quiz del cliente y el scoring del servidor.
func QuestionSetChecksum(questions []domain.QuizQuestion) string {
	var b strings.Builder
	b.WriteString(QuestionSetVersion)
	for _, q := range questions {
		fmt.Fprintf(&b, "|%s:%s:%s", q.ID, q.Kind, q.Prompt)
		switch q.Kind {
		case domain.QuestionScenario:
			for _, o := range q.Options {
				fmt.Fprintf(&b, ";%s", o.Label)
				for _, t := range o.Targets {
					fmt.Fprintf(&b, ",%s=%.4f", t.Dimension, t.Target)
				}
			}
		case domain.QuestionRating:
			fmt.Fprintf(&b, ";%s:%+d", q.Dimension, q.Direction)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
