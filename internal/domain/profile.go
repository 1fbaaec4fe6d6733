package domain

import "time"

// Escalas ordinales para preferencias sociales. El orden importa:
// la similitud se calcula por distancia de indices sobre la escala.
var (
	GroupSizeScale = []string{
		"One-on-one",
		"Small groups (3-5)",
		"Large groups (6+)",
	}

	MeetingFrequencyScale = []string{
		"Rarely",
		"Monthly",
		"Bi-weekly",
		"Weekly",
		"Multiple times a week",
	}
)

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type Personality struct {
	IntrovertExtrovert float64 `json:"introvert_extrovert"`
	SpontaneousPlanner float64 `json:"spontaneous_planner"`
	ActiveRelaxed      float64 `json:"active_relaxed"`
}

type SocialPreferences struct {
	GroupSize        string   `json:"group_size"`
	MeetingFrequency string   `json:"meeting_frequency"`
	PreferredTimes   []string `json:"preferred_times"`
}

// VibeCheckStatus distingue tres estados: el usuario nunca abrio el quiz,
// lo salto explicitamente, o lo completo. Saltar y no completar no son lo mismo.
type VibeCheckStatus string

const (
	VibeCheckNotTaken  VibeCheckStatus = "not_taken"
	VibeCheckSkipped   VibeCheckStatus = "skipped"
	VibeCheckCompleted VibeCheckStatus = "completed"
)

// VibeCheckResult es el vector de 8 dimensiones derivado del quiz mas el
// codigo de tipo de 4 letras. Solo existe cuando el quiz fue completado.
type VibeCheckResult struct {
	Dimensions DimensionVector `json:"dimensions"`
	TypeCode   string          `json:"type_code"`
}

// VibeCheck modela el estado del quiz como union etiquetada: un resultado
// poblado con status distinto de completed es irrepresentable via los
// constructores y Result().
type VibeCheck struct {
	Status VibeCheckStatus  `json:"status"`
	Data   *VibeCheckResult `json:"data,omitempty"`
}

func VibeCheckNone() VibeCheck {
	return VibeCheck{Status: VibeCheckNotTaken}
}

func VibeCheckSkip() VibeCheck {
	return VibeCheck{Status: VibeCheckSkipped}
}

func VibeCheckComplete(dims DimensionVector, typeCode string) VibeCheck {
	return VibeCheck{
		Status: VibeCheckCompleted,
		Data:   &VibeCheckResult{Dimensions: dims, TypeCode: typeCode},
	}
}

// Result devuelve el resultado solo si el quiz fue completado.
func (v VibeCheck) Result() (VibeCheckResult, bool) {
	if v.Status != VibeCheckCompleted || v.Data == nil {
		return VibeCheckResult{}, false
	}
	return *v.Data, true
}

type Profile struct {
	UserID            string            `json:"user_id"`
	DisplayName       string            `json:"name"`
	Age               int               `json:"age"`
	Bio               string            `json:"bio,omitempty"`
	Location          Location          `json:"location"`
	Photos            []string          `json:"photos"`
	Interests         []string          `json:"interests"`
	Personality       Personality       `json:"personality"`
	VibeCheck         VibeCheck         `json:"vibe_check"`
	SocialPreferences SocialPreferences `json:"social_preferences"`
	FriendshipGoals   []string          `json:"friendship_goals"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// DefaultProfile devuelve un perfil vacio con valores neutrales, igual al
// que recibe un usuario recien registrado.
func DefaultProfile(userID string) Profile {
	return Profile{
		UserID:    userID,
		Age:       18,
		Photos:    []string{},
		Interests: []string{},
		Personality: Personality{
			IntrovertExtrovert: 0.5,
			SpontaneousPlanner: 0.5,
			ActiveRelaxed:      0.5,
		},
		VibeCheck: VibeCheckNone(),
		SocialPreferences: SocialPreferences{
			GroupSize:        "Small groups (3-5)",
			MeetingFrequency: "Weekly",
			PreferredTimes:   []string{},
		},
		FriendshipGoals: []string{},
	}
}

// IsComplete indica si el perfil tiene el minimo para aparecer en discovery:
// nombre, al menos 3 intereses y algun horario preferido.
func (p Profile) IsComplete() bool {
	if p.DisplayName == "" {
		return false
	}
	if len(p.Interests) < 3 {
		return false
	}
	return len(p.SocialPreferences.PreferredTimes) > 0
}
