package match

import (
	"sort"

	"orbit-server/internal/domain"
)

// ClusterConfig parametriza la busqueda de grupos compatibles.
type ClusterConfig struct {
	// MinScore es el umbral de compatibilidad para entrar al cluster.
	MinScore float64
	// Size es el tamano objetivo incluyendo al solicitante.
	Size int
}

// DefaultClusterConfig: grupos de 4 con umbral 0.7.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{MinScore: 0.7, Size: 4}
}

// FindCluster arma un grupo de 3 a Size usuarios compatibles alrededor del
// solicitante:
//  1. Puntua al solicitante contra todos los perfiles disponibles.
//  2. Filtra candidatos bajo el umbral.
//  3. Expande greedy: arranca con el mejor match y suma en cada paso al
//     candidato con mejor promedio contra los miembros actuales.
//
// Devuelve los user IDs del cluster (solicitante incluido) o vacio si no
// alcanza el minimo de 3 miembros. Deterministico: empates se resuelven por
// ID ascendente.
func (r *Ranker) FindCluster(requesterID string, profiles map[string]domain.Profile, cfg ClusterConfig) []string {
	requester, ok := profiles[requesterID]
	if !ok {
		return nil
	}
	if cfg.Size < 3 {
		cfg.Size = 3
	}

	type scored struct {
		id    string
		score float64
	}

	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var candidates []scored
	for _, id := range ids {
		if id == requesterID {
			continue
		}
		candidate := profiles[id]
		if candidate.DisplayName == "" || malformedReason(candidate) != "" {
			continue
		}
		score := r.engine.Compatibility(requester, candidate).Score
		if score >= cfg.MinScore {
			candidates = append(candidates, scored{id: id, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	// Cache de scores par-a-par entre todos los involucrados.
	relevant := []string{requesterID}
	for _, c := range candidates {
		relevant = append(relevant, c.id)
	}
	pairScores := make(map[[2]string]float64)
	for i, idA := range relevant {
		for _, idB := range relevant[i+1:] {
			s := r.engine.Compatibility(profiles[idA], profiles[idB]).Score
			pairScores[[2]string{idA, idB}] = s
			pairScores[[2]string{idB, idA}] = s
		}
	}

	cluster := []string{requesterID, candidates[0].id}
	remaining := make([]string, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		remaining = append(remaining, c.id)
	}
	sort.Strings(remaining)

	for len(cluster) < cfg.Size && len(remaining) > 0 {
		bestID := ""
		bestAvg := -1.0
		for _, cid := range remaining {
			total := 0.0
			for _, member := range cluster {
				total += pairScores[[2]string{cid, member}]
			}
			avg := total / float64(len(cluster))
			if avg > bestAvg {
				bestAvg = avg
				bestID = cid
			}
		}
		if bestID == "" || bestAvg < cfg.MinScore {
			break
		}
		cluster = append(cluster, bestID)
		for i, cid := range remaining {
			if cid == bestID {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	if len(cluster) < 3 {
		return nil
	}
	return cluster
}
