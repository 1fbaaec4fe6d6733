package match

import (
	"math"
	"sort"

	"orbit-server/internal/domain"
)

// Engine encapsula los cuatro scorers de senal y la agregacion ponderada.
// Todos los metodos son totales y sin efectos: nunca fallan para entradas
// legales (incluidos sets vacios).
type Engine struct{}

// Breakdown expone el score por senal para texto explicativo y badges.
type Breakdown struct {
	Interest    float64 `json:"interest_score"`
	Personality float64 `json:"personality_score"`
	Social      float64 `json:"social_score"`
	Goals       float64 `json:"goal_score"`
}

// Result es el score final en [0,1] mas datos auxiliares de presentacion.
// Los compartidos no participan del score.
type Result struct {
	Score           float64   `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	SharedInterests []string  `json:"shared_interests,omitempty"`
	SharedGoals     []string  `json:"shared_goals,omitempty"`
}

// InterestScore es Jaccard sobre intereses; 0.0 si ambos estan vacios.
func (Engine) InterestScore(interestsA, interestsB []string) float64 {
	return jaccard(interestsA, interestsB)
}

// PersonalityScore compara las 8 dimensiones del quiz cuando ambos perfiles
// lo completaron; si no, las 3 basicas siempre presentes. En ambos modos:
// 1 - dist_euclidiana/sqrt(n), acotado a [0,1].
func (Engine) PersonalityScore(a, b domain.Profile) float64 {
	resultA, okA := a.VibeCheck.Result()
	resultB, okB := b.VibeCheck.Result()
	if okA && okB {
		filledA := resultA.Dimensions.Filled()
		filledB := resultB.Dimensions.Filled()
		sqSum := 0.0
		for _, d := range domain.VibeCheckDimensions {
			diff := filledA[d] - filledB[d]
			sqSum += diff * diff
		}
		return clamp01(1.0 - math.Sqrt(sqSum)/math.Sqrt(float64(len(domain.VibeCheckDimensions))))
	}

	diffs := []float64{
		a.Personality.IntrovertExtrovert - b.Personality.IntrovertExtrovert,
		a.Personality.SpontaneousPlanner - b.Personality.SpontaneousPlanner,
		a.Personality.ActiveRelaxed - b.Personality.ActiveRelaxed,
	}
	sqSum := 0.0
	for _, diff := range diffs {
		sqSum += diff * diff
	}
	return clamp01(1.0 - math.Sqrt(sqSum)/math.Sqrt(3))
}

// SocialScore promedia tres sub-scores con igual peso: distancia ordinal
// invertida de group size, idem de frecuencia, y Jaccard de horarios.
func (Engine) SocialScore(a, b domain.SocialPreferences) float64 {
	groupSim := ordinalSimilarity(a.GroupSize, b.GroupSize, domain.GroupSizeScale)
	freqSim := ordinalSimilarity(a.MeetingFrequency, b.MeetingFrequency, domain.MeetingFrequencyScale)
	timesSim := jaccard(a.PreferredTimes, b.PreferredTimes)
	return clamp01((groupSim + freqSim + timesSim) / 3.0)
}

// GoalsScore es Jaccard sobre friendship goals; 0.0 si ambos estan vacios.
func (Engine) GoalsScore(goalsA, goalsB []string) float64 {
	return jaccard(goalsA, goalsB)
}

// Compatibility calcula el score ponderado entre dos perfiles junto con el
// breakdown y las listas de intereses/metas compartidas. No renormaliza
// pesos ante datos escasos: una senal vacia aporta su valor definido (bajo)
// a peso completo.
func (e Engine) Compatibility(a, b domain.Profile) Result {
	weights := WeightsFor(a, b)

	breakdown := Breakdown{
		Interest:    e.InterestScore(a.Interests, b.Interests),
		Personality: e.PersonalityScore(a, b),
		Social:      e.SocialScore(a.SocialPreferences, b.SocialPreferences),
		Goals:       e.GoalsScore(a.FriendshipGoals, b.FriendshipGoals),
	}

	score := weights[CategoryInterest]*breakdown.Interest +
		weights[CategoryPersonality]*breakdown.Personality +
		weights[CategorySocial]*breakdown.Social +
		weights[CategoryGoals]*breakdown.Goals

	return Result{
		Score:           clamp01(score),
		Breakdown:       breakdown,
		SharedInterests: intersection(a.Interests, b.Interests),
		SharedGoals:     intersection(a.FriendshipGoals, b.FriendshipGoals),
	}
}

// TagOverlapScore es el scorer reducido para entidades tag-only (crews,
// missions): Jaccard puro entre intereses del solicitante y tags.
func (Engine) TagOverlapScore(interests, tags []string) float64 {
	return jaccard(interests, tags)
}

// jaccard calcula |A∩B| / |A∪B| sobre sets de strings; 0.0 cuando ambos
// estan vacios (nunca indefinido).
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	union := len(setB)
	inter := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// ordinalSimilarity devuelve 1 - distancia_normalizada entre dos categorias
// sobre una escala ordenada. Valor desconocido: 0.5 (neutral).
func ordinalSimilarity(a, b string, scale []string) float64 {
	idxA := indexOf(a, scale)
	idxB := indexOf(b, scale)
	if idxA < 0 || idxB < 0 {
		return 0.5
	}
	maxGap := len(scale) - 1
	if maxGap == 0 {
		return 1.0
	}
	return 1.0 - math.Abs(float64(idxA-idxB))/float64(maxGap)
}

func indexOf(value string, scale []string) int {
	for i, s := range scale {
		if s == value {
			return i
		}
	}
	return -1
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// intersection devuelve los elementos comunes, ordenados para salida
// deterministica.
func intersection(a, b []string) []string {
	setB := toSet(b)
	seen := make(map[string]struct{})
	var out []string
	for _, item := range a {
		if _, ok := setB[item]; !ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
