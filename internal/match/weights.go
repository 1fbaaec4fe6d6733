package match

import (
	"fmt"
	"math"

	"orbit-server/internal/domain"
)

// Category es una de las cuatro senales del score de compatibilidad.
type Category string

const (
	CategoryPersonality Category = "personality"
	CategoryInterest    Category = "interest"
	CategorySocial      Category = "social"
	CategoryGoals       Category = "goals"
)

// Categories lista las cuatro categorias en orden canonico.
var Categories = []Category{CategoryPersonality, CategoryInterest, CategorySocial, CategoryGoals}

// WeightTable asigna pesos no negativos a cada categoria; debe sumar 1.0.
type WeightTable map[Category]float64

const weightSumTolerance = 1e-9

// Pesos base: se usan cuando algun usuario no completo el vibe check.
// Pesos boosted: el extremo en pairConviction = 1.0. Los deltas suman cero
// por construccion (+0.10, -0.05, 0.00, -0.05), asi que toda interpolacion
// lineal entre ambos sigue sumando 1.0.
var (
	baseWeights = WeightTable{
		CategoryPersonality: 0.30,
		CategoryInterest:    0.30,
		CategorySocial:      0.20,
		CategoryGoals:       0.20,
	}
	boostedWeights = WeightTable{
		CategoryPersonality: 0.40,
		CategoryInterest:    0.25,
		CategorySocial:      0.20,
		CategoryGoals:       0.15,
	}
)

// BaseWeights devuelve una copia de la tabla base.
func BaseWeights() WeightTable {
	return copyWeights(baseWeights)
}

// BoostedWeights devuelve una copia de la tabla boosted.
func BoostedWeights() WeightTable {
	return copyWeights(boostedWeights)
}

func copyWeights(w WeightTable) WeightTable {
	out := make(WeightTable, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Validate verifica que los pesos sean no negativos y sumen 1.0.
func (w WeightTable) Validate() error {
	sum := 0.0
	for _, c := range Categories {
		weight, ok := w[c]
		if !ok {
			return fmt.Errorf("weight table missing category %q", c)
		}
		if weight < 0 {
			return fmt.Errorf("weight for %q is negative: %v", c, weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weight table must sum to 1.0, got %.12f", sum)
	}
	return nil
}

// InterpolateWeights mezcla base y boosted linealmente segun pairConviction,
// acotado a [0,1]. Con t=0 devuelve la tabla base; con t=1 la boosted.
func InterpolateWeights(pairConviction float64) WeightTable {
	t := clamp01(pairConviction)
	out := make(WeightTable, len(Categories))
	for _, c := range Categories {
		out[c] = baseWeights[c] + (boostedWeights[c]-baseWeights[c])*t
	}
	return out
}

// WeightsFor decide la tabla de pesos para un par de perfiles: interpolada
// por conviccion cuando ambos completaron el quiz, base en cualquier otro
// caso (incluye quiz salteado o apenas empezado).
func WeightsFor(a, b domain.Profile) WeightTable {
	resultA, okA := a.VibeCheck.Result()
	resultB, okB := b.VibeCheck.Result()
	if !okA || !okB {
		return BaseWeights()
	}
	return InterpolateWeights(PairConviction(resultA.Dimensions, resultB.Dimensions))
}
