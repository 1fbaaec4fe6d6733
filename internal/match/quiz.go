package match

import (
	"errors"
	"math"

	"orbit-server/internal/domain"
)

// ErrEmptyQuestionTable indica una tabla de preguntas estructuralmente rota.
// Es la unica condicion fatal del motor: invalida todo calculo posterior.
var ErrEmptyQuestionTable = errors.New("question table is empty")

// QuizEngine agrega respuestas del vibe check contra la tabla estatica.
// Es una funcion pura de (tabla, respuestas): sin estado mutable.
type QuizEngine struct {
	questions []domain.QuizQuestion
	byID      map[string]domain.QuizQuestion
}

// NewQuizEngine construye el motor sobre una tabla de preguntas. Una tabla
// vacia o con entradas sin ID es error de construccion, no de agregacion.
func NewQuizEngine(questions []domain.QuizQuestion) (*QuizEngine, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionTable
	}
	byID := make(map[string]domain.QuizQuestion, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return nil, errors.New("question table has entry without id")
		}
		if q.Kind == domain.QuestionScenario && len(q.Options) == 0 {
			return nil, errors.New("scenario question " + q.ID + " has no options")
		}
		if q.Kind == domain.QuestionRating && q.Direction != 1 && q.Direction != -1 {
			return nil, errors.New("rating question " + q.ID + " has invalid direction")
		}
		byID[q.ID] = q
	}
	copied := make([]domain.QuizQuestion, len(questions))
	copy(copied, questions)
	return &QuizEngine{questions: copied, byID: byID}, nil
}

// QuestionCount devuelve el tamano de la tabla.
func (e *QuizEngine) QuestionCount() int {
	return len(e.questions)
}

// Questions devuelve una copia de la tabla del motor.
func (e *QuizEngine) Questions() []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(e.questions))
	copy(out, e.questions)
	return out
}

// Aggregate convierte respuestas (parciales permitidas) en un DimensionVector.
// Cada dimension tocada termina con la media de sus contribuciones, acotada a
// [0,1]; dimensiones sin contribuciones quedan ausentes. Respuestas invalidas
// (indice fuera de rango, rating fuera de 1-7) cuentan como no respondidas.
func (e *QuizEngine) Aggregate(answers map[string]domain.QuizAnswer) domain.DimensionVector {
	sums := make(map[domain.Dimension]float64)
	counts := make(map[domain.Dimension]int)

	for _, q := range e.questions {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		switch q.Kind {
		case domain.QuestionScenario:
			if answer.OptionIndex == nil {
				continue
			}
			idx := *answer.OptionIndex
			if idx < 0 || idx >= len(q.Options) {
				continue
			}
			for _, t := range q.Options[idx].Targets {
				sums[t.Dimension] += t.Target
				counts[t.Dimension]++
			}
		case domain.QuestionRating:
			if answer.Rating == nil {
				continue
			}
			r := *answer.Rating
			if r < 1 || r > 7 {
				continue
			}
			value := float64(r-1) / 6.0
			if q.Direction == -1 {
				value = 1.0 - value
			}
			sums[q.Dimension] += value
			counts[q.Dimension]++
		}
	}

	vector := make(domain.DimensionVector, len(sums))
	for dim, sum := range sums {
		vector[dim] = clamp01(sum / float64(counts[dim]))
	}
	return vector
}

// IsComplete indica si toda pregunta de la tabla tiene una respuesta valida.
func (e *QuizEngine) IsComplete(answers map[string]domain.QuizAnswer) bool {
	for _, q := range e.questions {
		answer, ok := answers[q.ID]
		if !ok {
			return false
		}
		if !e.isValidAnswer(q, answer) {
			return false
		}
	}
	return true
}

func (e *QuizEngine) isValidAnswer(q domain.QuizQuestion, a domain.QuizAnswer) bool {
	switch q.Kind {
	case domain.QuestionScenario:
		return a.OptionIndex != nil && *a.OptionIndex >= 0 && *a.OptionIndex < len(q.Options)
	case domain.QuestionRating:
		return a.Rating != nil && *a.Rating >= 1 && *a.Rating <= 7
	}
	return false
}

// ValidateAnswer verifica una respuesta individual contra la tabla.
func (e *QuizEngine) ValidateAnswer(a domain.QuizAnswer) bool {
	q, ok := e.byID[a.QuestionID]
	if !ok {
		return false
	}
	return e.isValidAnswer(q, a)
}

// TypeCode deriva el codigo de 4 letras desde el vector de dimensiones.
// Letras: E/I (introvert_extrovert), N/S (sensing_intuition),
// F/T (thinking_feeling), J/P (spontaneous_planner).
func TypeCode(vector domain.DimensionVector) string {
	filled := vector.Filled()
	code := make([]byte, 0, 4)
	if filled[domain.DimIntrovertExtrovert] >= 0.5 {
		code = append(code, 'E')
	} else {
		code = append(code, 'I')
	}
	if filled[domain.DimSensingIntuition] >= 0.5 {
		code = append(code, 'N')
	} else {
		code = append(code, 'S')
	}
	if filled[domain.DimThinkingFeeling] >= 0.5 {
		code = append(code, 'F')
	} else {
		code = append(code, 'T')
	}
	if filled[domain.DimSpontaneousPlanner] >= 0.5 {
		code = append(code, 'J')
	} else {
		code = append(code, 'P')
	}
	return string(code)
}

// Conviction mide que tan decisivo es un vector: 0.0 para todo neutral,
// 1.0 para todas las dimensiones en un extremo. Las dimensiones ausentes
// se rellenan a 0.5 antes de medir.
func Conviction(vector domain.DimensionVector) float64 {
	filled := vector.Filled()
	total := 0.0
	for _, d := range domain.VibeCheckDimensions {
		total += math.Abs(filled[d]-0.5) * 2.0
	}
	return total / float64(len(domain.VibeCheckDimensions))
}

// PairConviction promedia la conviccion de dos vectores. Solo tiene sentido
// cuando ambos usuarios completaron el quiz.
func PairConviction(a, b domain.DimensionVector) float64 {
	return (Conviction(a) + Conviction(b)) / 2.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
