package match

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"orbit-server/internal/domain"
)

// DefaultResultCap acota el feed de discovery cuando el caller no pide otro.
const DefaultResultCap = 20

const defaultRankWorkers = 8

// RankedMatch es una entrada del feed ordenado.
type RankedMatch struct {
	CandidateID     string    `json:"candidate_id"`
	Score           float64   `json:"compatibility_score"`
	Breakdown       Breakdown `json:"breakdown"`
	SharedInterests []string  `json:"shared_interests,omitempty"`
	SharedGoals     []string  `json:"shared_goals,omitempty"`
}

// RankedTag es una entrada del feed de entidades tag-only (crews/missions).
type RankedTag struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"compatibility_score"`
}

// SkippedCandidate diagnostica un candidato excluido por perfil malformado.
// Nunca aborta el ranking del resto del pool.
type SkippedCandidate struct {
	CandidateID string `json:"candidate_id"`
	Reason      string `json:"reason"`
}

// TagEntity es la vista minima de un crew o mission para ranking.
type TagEntity struct {
	ID   string
	Tags []string
}

// Ranker filtra, puntua en paralelo y ordena un pool de candidatos.
// Es puro: mismo pool y mismo solicitante producen siempre la misma lista.
type Ranker struct {
	engine  Engine
	workers int
}

func NewRanker() *Ranker {
	return &Ranker{workers: defaultRankWorkers}
}

// RankProfiles puntua cada candidato elegible contra el solicitante y
// devuelve la lista ordenada (score descendente, empate por ID ascendente)
// truncada al cap, mas los diagnosticos de candidatos malformados.
func (r *Ranker) RankProfiles(requester domain.Profile, pool []domain.Profile, limit int) ([]RankedMatch, []SkippedCandidate) {
	if limit <= 0 {
		limit = DefaultResultCap
	}

	var eligible []domain.Profile
	var skipped []SkippedCandidate
	for _, candidate := range pool {
		if candidate.UserID == requester.UserID {
			continue
		}
		if candidate.DisplayName == "" {
			continue
		}
		if reason := malformedReason(candidate); reason != "" {
			skipped = append(skipped, SkippedCandidate{CandidateID: candidate.UserID, Reason: reason})
			continue
		}
		eligible = append(eligible, candidate)
	}

	// Puntuar cada candidato es independiente del resto: se reparte entre
	// workers y se escribe por indice, asi el orden de ejecucion nunca
	// afecta el resultado.
	matches := make([]RankedMatch, len(eligible))
	workers := r.workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range eligible {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			result := r.engine.Compatibility(requester, eligible[i])
			matches[i] = RankedMatch{
				CandidateID:     eligible[i].UserID,
				Score:           result.Score,
				Breakdown:       result.Breakdown,
				SharedInterests: result.SharedInterests,
				SharedGoals:     result.SharedGoals,
			}
		}(i)
	}
	wg.Wait()

	sortMatches(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, skipped
}

// RankTags ordena entidades tag-only por Jaccard contra los intereses del
// solicitante. Entidades sin ID o sin nombre no llegan hasta aca: el caller
// pasa solo entidades validas.
func (r *Ranker) RankTags(interests []string, entities []TagEntity, limit int) []RankedTag {
	if limit <= 0 {
		limit = DefaultResultCap
	}
	ranked := make([]RankedTag, 0, len(entities))
	for _, entity := range entities {
		ranked = append(ranked, RankedTag{
			EntityID: entity.ID,
			Score:    r.engine.TagOverlapScore(interests, entity.Tags),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func sortMatches(matches []RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CandidateID < matches[j].CandidateID
	})
}

// malformedReason valida los campos siempre-presentes de un candidato.
// Devuelve vacio si el perfil es sano.
func malformedReason(p domain.Profile) string {
	if p.Interests == nil {
		return "interests missing"
	}
	traits := []struct {
		name  string
		value float64
	}{
		{"introvert_extrovert", p.Personality.IntrovertExtrovert},
		{"spontaneous_planner", p.Personality.SpontaneousPlanner},
		{"active_relaxed", p.Personality.ActiveRelaxed},
	}
	for _, t := range traits {
		if math.IsNaN(t.value) || t.value < 0 || t.value > 1 {
			return fmt.Sprintf("personality trait %s out of range", t.name)
		}
	}
	return ""
}
