package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"orbit-server/internal/domain"
	"orbit-server/internal/match"
)

// matchcheck puntua dos perfiles desde archivos JSON sin levantar el server.
// Util para verificar a mano como mueve el score un cambio de perfil.
func main() {
	fileA := flag.String("a", "", "path to first profile JSON")
	fileB := flag.String("b", "", "path to second profile JSON")
	flag.Parse()

	if *fileA == "" || *fileB == "" {
		fmt.Fprintln(os.Stderr, "usage: matchcheck -a profile_a.json -b profile_b.json")
		os.Exit(2)
	}

	a, err := loadProfile(*fileA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *fileA, err)
		os.Exit(1)
	}
	b, err := loadProfile(*fileB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *fileB, err)
		os.Exit(1)
	}

	var engine match.Engine
	result := engine.Compatibility(a, b)
	weights := match.WeightsFor(a, b)

	out := struct {
		Score           float64           `json:"compatibility_score"`
		Breakdown       match.Breakdown   `json:"breakdown"`
		Weights         match.WeightTable `json:"weights"`
		SharedInterests []string          `json:"shared_interests"`
		SharedGoals     []string          `json:"shared_goals"`
	}{
		Score:           result.Score,
		Breakdown:       result.Breakdown,
		Weights:         weights,
		SharedInterests: result.SharedInterests,
		SharedGoals:     result.SharedGoals,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}

func loadProfile(path string) (domain.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, err
	}
	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
