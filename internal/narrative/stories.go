package narrative

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

const aspirationFallbackLen = 100

func firstGroup(text string, groups []lexicon.Group, fallback string) string {
	for _, g := range groups {
		if lexicon.Any(text, g.Markers) {
			return g.Name
		}
	}
	return fallback
}

func extractLiving(text string, ts time.Time) *LivingStory {
	if !lexicon.Any(text, livingMarkers) {
		return nil
	}
	return &LivingStory{
		ID:        uuid.NewString(),
		Content:   text,
		Theme:     livingTheme(text),
		Emotion:   firstGroup(text, livingEmotions, "neutral"),
		Outcome:   firstGroup(text, livingOutcomes, "ongoing"),
		Timestamp: ts,
	}
}

func livingTheme(text string) string {
	if theme := firstGroup(text, livingThemes, ""); theme != "" {
		return theme
	}
	for _, w := range lexicon.Tokens(text) {
		if utf8.RuneCountInString(w) >= 5 && !stopWords[w] {
			return w
		}
	}
	return "general"
}

func extractAnte(text string, ts time.Time) *AnteNarrative {
	end := -1
	for _, m := range anteMarkers {
		if end = lexicon.Index(text, m); end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil
	}

	if end > len(text) {
		end = len(text)
	}
	aspiration := text[end:]
	if cut := strings.IndexAny(aspiration, ".!?"); cut >= 0 {
		aspiration = aspiration[:cut]
	}
	aspiration = strings.TrimSpace(aspiration)
	if aspiration == "" {
		aspiration = truncate(text, aspirationFallbackLen)
	}

	return &AnteNarrative{
		ID:          uuid.NewString(),
		Content:     text,
		Aspiration:  aspiration,
		Timeframe:   timeframe(text),
		Feasibility: feasibility(text),
		Timestamp:   ts,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func timeframe(text string) string {
	switch {
	case lexicon.Any(text, timeframeShort):
		return "short"
	case lexicon.Any(text, timeframeMedium):
		return "medium"
	case lexicon.Any(text, timeframeLong):
		return "long"
	default:
		return "unspecified"
	}
}

func feasibility(text string) float64 {
	f := 0.5
	if lexicon.Any(text, feasibilityEvidence) {
		f += 0.2
	}
	if lexicon.Any(text, feasibilityCost) {
		f -= 0.2
	}
	if lexicon.Any(text, feasibilityHedging) {
		f -= 0.1
	}
	return lexicon.Clamp01(f)
}

// extractGrand needs either a universal marker or enough collected stories to
// generalize from. priorContent is the content of every story collected
// before this turn.
func extractGrand(text string, priorContent []string, ts time.Time) *GrandNarrative {
	if !lexicon.Any(text, universalMarkers) && len(priorContent) < 3 {
		return nil
	}
	combined := strings.Join(append([]string{text}, priorContent...), " ")

	theme := "collective experience"
	for _, g := range universalThemes {
		if lexicon.Count(combined, g.Markers) == len(g.Markers) {
			theme = g.Name
			break
		}
	}

	truth := defaultUniversalTruth
	for _, s := range lexicon.Sentences(text) {
		if lexicon.Any(s, universalMarkers) {
			truth = s
			break
		}
	}

	applicability := "local"
	switch {
	case lexicon.Any(text, applicabilityUniversal):
		applicability = "universal"
	case lexicon.Any(text, applicabilityRegional):
		applicability = "regional"
	}

	return &GrandNarrative{
		ID:             uuid.NewString(),
		Content:        text,
		Theme:          theme,
		UniversalTruth: truth,
		Applicability:  applicability,
		Timestamp:      ts,
	}
}
