package narrative

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

func firingPairs(text string, pairs [][2]string) [][2]string {
	var out [][2]string
	for _, p := range pairs {
		if lexicon.Has(text, p[0]) && lexicon.Has(text, p[1]) {
			out = append(out, p)
		}
	}
	return out
}

func pairLabel(p [2]string) string {
	return strings.TrimSuffix(p[0], "*") + " vs " + strings.TrimSuffix(p[1], "*")
}

func detectSuperposition(text string, ts time.Time) *QuantumNarrative {
	pairs := firingPairs(text, superpositionPairs)
	if len(pairs) == 0 {
		return nil
	}
	alts := make([]string, len(pairs))
	for i, p := range pairs {
		alts[i] = pairLabel(p)
	}
	return &QuantumNarrative{
		ID:                       uuid.NewString(),
		Type:                     QuantumSuperposition,
		AlternativePossibilities: alts,
		QuantumCoherence:         lexicon.Clamp01(0.4 + 0.15*float64(len(pairs))),
		Content:                  text,
		Timestamp:                ts,
	}
}

func detectEntanglement(text string, ts time.Time) *QuantumNarrative {
	pairs := firingPairs(text, entanglementPairs)
	if len(pairs) == 0 {
		return nil
	}
	alts := make([]string, len(pairs))
	var concepts []string
	for i, p := range pairs {
		alts[i] = pairLabel(p)
		concepts = append(concepts, strings.TrimSuffix(p[0], "*"), strings.TrimSuffix(p[1], "*"))
	}
	return &QuantumNarrative{
		ID:                       uuid.NewString(),
		Type:                     QuantumEntanglement,
		AlternativePossibilities: alts,
		EntangledConcepts:        concepts,
		QuantumCoherence:         lexicon.Clamp01(0.5 + 0.15*float64(len(pairs))),
		Content:                  text,
		Timestamp:                ts,
	}
}

func classifyEvolution(text string) Evolution {
	lower := strings.ToLower(text)
	ev := Evolution{
		Stage:       StageInitiation,
		Direction:   "stable",
		Catalysts:   []string{},
		Resistances: []string{},
	}
	for _, s := range evolutionStages {
		if s.Re.MatchString(lower) {
			ev.Stage = s.Name
			break
		}
	}

	switch {
	case lexicon.Any(text, directionForward):
		ev.Direction = "progressive"
	case lexicon.Any(text, directionBackward):
		ev.Direction = "regressive"
	}

	for _, w := range lexicon.Hits(text, catalystWords) {
		ev.Catalysts = append(ev.Catalysts, strings.TrimSuffix(w, "*"))
	}
	for _, w := range lexicon.Hits(text, resistanceWords) {
		ev.Resistances = append(ev.Resistances, strings.TrimSuffix(w, "*"))
	}

	ev.NextStageReadiness = lexicon.Clamp01(
		0.3*float64(len(ev.Catalysts)) + 0.4 - 0.2*float64(len(ev.Resistances)))
	return ev
}
