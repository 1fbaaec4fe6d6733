package domain

// Dimension es una de las 8 dimensiones de personalidad del vibe check.
// Cada valor vive en [0,1]; 0.5 es el punto neutral.
type Dimension string

const (
	DimIntrovertExtrovert       Dimension = "introvert_extrovert"
	DimSpontaneousPlanner       Dimension = "spontaneous_planner"
	DimActiveRelaxed            Dimension = "active_relaxed"
	DimAdventurousCautious      Dimension = "adventurous_cautious"
	DimExpressiveReserved       Dimension = "expressive_reserved"
	DimIndependentCollaborative Dimension = "independent_collaborative"
	DimSensingIntuition         Dimension = "sensing_intuition"
	DimThinkingFeeling          Dimension = "thinking_feeling"
)

// VibeCheckDimensions lista las 8 dimensiones en orden canonico.
var VibeCheckDimensions = []Dimension{
	DimIntrovertExtrovert,
	DimSpontaneousPlanner,
	DimActiveRelaxed,
	DimAdventurousCautious,
	DimExpressiveReserved,
	DimIndependentCollaborative,
	DimSensingIntuition,
	DimThinkingFeeling,
}

// DimensionVector mapea dimensiones a valores en [0,1]. Las dimensiones sin
// respuestas quedan ausentes; el default neutral (0.5) se aplica al consumir.
type DimensionVector map[Dimension]float64

// Filled devuelve una copia con toda dimension ausente rellenada a 0.5.
func (v DimensionVector) Filled() DimensionVector {
	out := make(DimensionVector, len(VibeCheckDimensions))
	for _, d := range VibeCheckDimensions {
		if val, ok := v[d]; ok {
			out[d] = val
		} else {
			out[d] = 0.5
		}
	}
	return out
}

type QuestionKind string

const (
	QuestionScenario QuestionKind = "scenario"
	QuestionRating   QuestionKind = "rating"
)

// DimensionTarget indica donde cae una opcion de escenario sobre una dimension.
type DimensionTarget struct {
	Dimension Dimension `json:"dimension"`
	Target    float64   `json:"target"`
}

type QuizOption struct {
	Label   string            `json:"label"`
	Targets []DimensionTarget `json:"targets"`
}

// QuizQuestion es una entrada de la tabla estatica de 22 preguntas.
// Scenario usa Options; rating usa Dimension + Direction (+1 acuerdo sube
// la dimension, -1 la baja).
type QuizQuestion struct {
	ID        string       `json:"id"`
	Prompt    string       `json:"prompt"`
	Kind      QuestionKind `json:"kind"`
	Options   []QuizOption `json:"options,omitempty"`
	Dimension Dimension    `json:"dimension,omitempty"`
	Direction int          `json:"direction,omitempty"`
}

// QuizAnswer es la respuesta de un usuario a una pregunta: indice de opcion
// para scenario, rating 1-7 para rating. Exactamente uno de los dos aplica.
type QuizAnswer struct {
	QuestionID  string `json:"question_id"`
	OptionIndex *int   `json:"option_index,omitempty"`
	Rating      *int   `json:"rating,omitempty"`
}
