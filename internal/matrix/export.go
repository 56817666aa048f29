package matrix

import (
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

// ExportForVisualization projects the whole history into parallel series.
// An empty history yields empty, non-nil series.
func (e *Engine) ExportForVisualization() Series {
	s := Series{
		Timestamps:  make([]time.Time, 0, len(e.history)),
		Orientation: make([]OrientationMatrix, 0, len(e.history)),
		Dialectical: make([]DialecticalMatrix, 0, len(e.history)),
		Narrative:   make([]NarrativeMatrix, 0, len(e.history)),
		Engagement:  make([]EngagementMatrix, 0, len(e.history)),
		Sentiment:   make([]float64, 0, len(e.history)),
	}
	for _, a := range e.history {
		s.Timestamps = append(s.Timestamps, a.Timestamp)
		s.Orientation = append(s.Orientation, a.Orientation)
		s.Dialectical = append(s.Dialectical, a.Dialectical)
		s.Narrative = append(s.Narrative, a.Narrative)
		s.Engagement = append(s.Engagement, a.Engagement)
		s.Sentiment = append(s.Sentiment, Sentiment(a))
	}
	return s
}

// Sentiment derives a scalar in [-1,1] from an analysis: open axes minus
// reluctant axes, nudged by synthesis readiness.
func Sentiment(a Analysis) float64 {
	o := a.Orientation
	open := (o.PersonalOpen + o.CommunityOpen + o.ClimateOpen) / 3
	reluctant := (o.PersonalReluctant + o.CommunityReluctant + o.ClimateReluctant) / 3
	return lexicon.Clamp(open-reluctant+0.5*a.Dialectical.SynthesisReadiness, -1, 1)
}

// Evolution lists the dominant axis of every analysis in order and counts
// how often it changed.
func (e *Engine) Evolution() Evolution {
	ev := Evolution{Trail: make([]string, 0, len(e.history))}
	for i, a := range e.history {
		axis := dominantAxis(a.Orientation)
		if i > 0 && axis != ev.Trail[i-1] {
			ev.Changes++
		}
		ev.Trail = append(ev.Trail, axis)
	}
	return ev
}
