// Package matrix scores conversation turns into orientation, dialectical,
// narrative and engagement matrices and keeps the per-turn history.
package matrix

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/clues"
	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

// ErrIndexOutOfRange is returned by Compare for indexes outside the history.
var ErrIndexOutOfRange = errors.New("matrix: history index out of range")

const hitDivisor = 5.0

// Engine computes matrices for each analyzed turn. It is not safe for
// concurrent use.
type Engine struct {
	history []Analysis
	now     func() time.Time
}

// NewEngine returns an engine with an empty history.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Analyze scores text stamped with the current time.
func (e *Engine) Analyze(text string, detected clues.DetectedClues) Analysis {
	return e.AnalyzeAt(text, detected, e.now())
}

// AnalyzeAt scores text and appends the result, stamped with ts, to the history.
func (e *Engine) AnalyzeAt(text string, detected clues.DetectedClues, ts time.Time) Analysis {
	a := Analysis{
		Orientation: orientation(text),
		Dialectical: dialectical(text, detected),
		Narrative:   narrative(text),
		Engagement:  engagement(text, detected),
		Timestamp:   ts,
	}
	e.history = append(e.history, a)
	return a
}

func orientation(text string) OrientationMatrix {
	r := lexicon.Ratio(text, reluctance)
	reluctant := func(focus []string) float64 {
		return lexicon.Clamp01(lexicon.Ratio(text, focus) + r)
	}
	open := func(focus []string) float64 {
		return lexicon.Clamp01(lexicon.Ratio(text, focus) + (1 - r))
	}
	return OrientationMatrix{
		PersonalReluctant:  reluctant(personalFocus),
		PersonalOpen:       open(personalFocus),
		CommunityReluctant: reluctant(communityFocus),
		CommunityOpen:      open(communityFocus),
		ClimateReluctant:   reluctant(climateFocus),
		ClimateOpen:        open(climateFocus),
	}
}

func dialectical(text string, detected clues.DetectedClues) DialecticalMatrix {
	certainty := detected.CountType(clues.MarkerCertainty)
	conflict := len(detected.Contradictions) + lexicon.Count(text, conflictWords)
	return DialecticalMatrix{
		ThesisStrength:     lexicon.Clamp01(float64(certainty) / hitDivisor),
		AntithesisPresence: lexicon.Clamp01(float64(conflict) / hitDivisor),
		SynthesisReadiness: lexicon.Clamp01(float64(lexicon.Count(text, opennessWords)) / hitDivisor),
	}
}

func narrative(text string) NarrativeMatrix {
	universal := lexicon.Any(text, universalWords)

	n := NarrativeMatrix{
		StoryType:          StoryLiving,
		EvolutionStage:     StageEmerging,
		CommunityResonance: ResonanceIndividual,
	}
	if lexicon.Any(text, futureWords) {
		n.StoryType = StoryAnte
	}
	if universal {
		n.StoryType = StoryGrand
	}

	if len(lexicon.Sentences(text)) > 3 {
		n.EvolutionStage = StageDeveloping
	}
	if lexicon.Any(text, convergenceWords) {
		n.EvolutionStage = StageConverging
	}

	if lexicon.Any(text, areaWords) {
		n.CommunityResonance = ResonanceLocal
	}
	if universal {
		n.CommunityResonance = ResonanceUniversal
	}
	return n
}

func engagement(text string, detected clues.DetectedClues) EngagementMatrix {
	emotions := detected.CountType(clues.MarkerEmotion)
	words := lexicon.WordCount(text)

	m := EngagementMatrix{
		EmotionalInvestment: InvestmentLow,
		PracticalReadiness:  ReadinessExploring,
		SupportNeeds:        SupportInformation,
	}
	switch {
	case emotions >= 2 || (emotions >= 1 && words > 50):
		m.EmotionalInvestment = InvestmentHigh
	case emotions >= 1 || words > 30:
		m.EmotionalInvestment = InvestmentMedium
	}

	switch {
	case lexicon.Any(text, actionWords):
		m.PracticalReadiness = ReadinessActing
	case lexicon.Any(text, planWords):
		m.PracticalReadiness = ReadinessPlanning
	}

	switch {
	case lexicon.Any(text, resourceWords):
		m.SupportNeeds = SupportResources
	case lexicon.Any(text, validationWords):
		m.SupportNeeds = SupportValidation
	}
	return m
}

// CurrentOrientation returns the strongest axis of the latest analysis.
// Ties go to the axis declared first; an empty history yields P-R.
func (e *Engine) CurrentOrientation() string {
	if len(e.history) == 0 {
		return AxisPersonalReluctant
	}
	return dominantAxis(e.history[len(e.history)-1].Orientation)
}

func dominantAxis(o OrientationMatrix) string {
	best, bestScore := Axes[0], o.Score(Axes[0])
	for _, axis := range Axes[1:] {
		if s := o.Score(axis); s > bestScore {
			best, bestScore = axis, s
		}
	}
	return best
}

var ordinal = map[string]int{
	InvestmentLow: 1, ReadinessExploring: 1, SupportInformation: 1,
	InvestmentMedium: 2, ReadinessPlanning: 2, SupportValidation: 2,
	InvestmentHigh: 3, ReadinessActing: 3, SupportResources: 3,
}

// Compare measures the change between history entries i and j.
func (e *Engine) Compare(i, j int) (Comparison, error) {
	if i < 0 || i >= len(e.history) || j < 0 || j >= len(e.history) {
		return Comparison{}, fmt.Errorf("%w: compare(%d, %d) with %d entries", ErrIndexOutOfRange, i, j, len(e.history))
	}
	a, b := e.history[i], e.history[j]

	var sq float64
	for _, axis := range Axes {
		d := b.Orientation.Score(axis) - a.Orientation.Score(axis)
		sq += d * d
	}

	synthesis := b.Dialectical.SynthesisReadiness - a.Dialectical.SynthesisReadiness
	antithesis := a.Dialectical.AntithesisPresence - b.Dialectical.AntithesisPresence

	ea, eb := a.Engagement, b.Engagement
	engagementDelta := ordinal[eb.EmotionalInvestment] - ordinal[ea.EmotionalInvestment] +
		ordinal[eb.PracticalReadiness] - ordinal[ea.PracticalReadiness] +
		ordinal[eb.SupportNeeds] - ordinal[ea.SupportNeeds]

	shift := a.Narrative.EvolutionStage != b.Narrative.EvolutionStage ||
		a.Narrative.CommunityResonance != b.Narrative.CommunityResonance

	return Comparison{
		OrientationDistance:    math.Sqrt(sq),
		DialecticalProgression: (synthesis + antithesis) / 2,
		NarrativeShift:         shift,
		EngagementChange:       float64(engagementDelta) / 3,
	}, nil
}

// History returns a copy of every analysis so far.
func (e *Engine) History() []Analysis {
	out := make([]Analysis, len(e.history))
	copy(out, e.history)
	return out
}

// Len returns the number of analyses in the history.
func (e *Engine) Len() int { return len(e.history) }

// Reset clears the history.
func (e *Engine) Reset() { e.history = nil }
