// Package clues scans user turns for linguistic markers, topic patterns,
// engagement signals and contradictions against the turns that came before.
package clues

import (
	"sort"
	"strings"
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

const (
	confidenceHesitation  = 0.8
	confidenceCertainty   = 0.9
	confidenceUncertainty = 0.9
	confidenceEmotion     = 0.85

	repeatedConcernThreshold = 3
	avoidanceWindow          = 3
	avoidanceMinHistory      = 5
)

// Detector accumulates conversation history and topic counts. It is not safe
// for concurrent use; build one per request.
type Detector struct {
	history     []string
	timestamps  []time.Duration
	topicCounts map[string]int
}

// NewDetector returns an empty detector.
func NewDetector() *Detector {
	return &Detector{topicCounts: make(map[string]int)}
}

// Analyze scans text and records it in the detector's history. A zero
// responseTime means the response time is unknown.
func (d *Detector) Analyze(text string, responseTime time.Duration) DetectedClues {
	prior := d.history
	priorTimes := d.timestamps

	d.history = append(d.history, text)
	if responseTime > 0 {
		d.timestamps = append(d.timestamps, responseTime)
	}

	present := lexicon.DetectTopics(text)
	for _, topic := range present {
		d.topicCounts[topic]++
	}

	return DetectedClues{
		LinguisticMarkers: linguisticMarkers(text),
		TopicPatterns:     d.topicPatterns(text, present),
		EngagementSignals: engagementSignals(text, responseTime, priorTimes),
		Contradictions:    contradictions(text, prior),
	}
}

func linguisticMarkers(text string) []LinguisticMarker {
	markers := []LinguisticMarker{}
	add := func(kind string, list []string, confidence float64) {
		for _, hit := range lexicon.Hits(text, list) {
			markers = append(markers, LinguisticMarker{Type: kind, Text: hit, Confidence: confidence})
		}
	}
	add(MarkerHesitation, lexicon.Hesitation, confidenceHesitation)
	add(MarkerCertainty, lexicon.Certainty, confidenceCertainty)
	add(MarkerUncertainty, lexicon.Uncertainty, confidenceUncertainty)

	lower := strings.ToLower(text)
	for _, e := range lexicon.Emotions {
		if m := e.Re.FindString(lower); m != "" {
			markers = append(markers, LinguisticMarker{
				Type:       MarkerEmotion,
				Category:   e.Name,
				Text:       m,
				Confidence: confidenceEmotion,
			})
		}
	}
	return markers
}

func (d *Detector) topicPatterns(text string, present []string) []TopicPattern {
	patterns := []TopicPattern{}

	for _, topic := range lexicon.TopicNames() {
		if n := d.topicCounts[topic]; n >= repeatedConcernThreshold {
			patterns = append(patterns, TopicPattern{Type: PatternRepeatedConcern, Topic: topic, Frequency: n})
		}
	}

	for _, topic := range present {
		for _, word := range lexicon.Hits(text, lexicon.Enthusiasm) {
			patterns = append(patterns, TopicPattern{
				Type:      PatternEnthusiasmTrigger,
				Topic:     topic,
				Frequency: d.topicCounts[topic],
				Trigger:   word,
			})
		}
	}

	if len(d.history) > avoidanceMinHistory {
		early := strings.Join(d.history[:avoidanceWindow], " ")
		late := strings.Join(d.history[len(d.history)-avoidanceWindow:], " ")
		for _, t := range lexicon.Topics {
			if lexicon.Any(early, t.Markers) && !lexicon.Any(late, t.Markers) {
				patterns = append(patterns, TopicPattern{
					Type:      PatternAvoidedSubject,
					Topic:     t.Name,
					Frequency: d.topicCounts[t.Name],
				})
			}
		}
	}
	return patterns
}

func engagementSignals(text string, responseTime time.Duration, prior []time.Duration) []EngagementSignal {
	words := lexicon.WordCount(text)
	signals := []EngagementSignal{{
		Type:           SignalResponseLength,
		Value:          float64(words),
		Interpretation: bucket(words > 50, words > 20),
	}}

	if responseTime > 0 && len(prior) >= 2 {
		var total time.Duration
		for _, p := range prior {
			total += p
		}
		avg := float64(total) / float64(len(prior))
		rt := float64(responseTime)
		interp := Medium
		switch {
		case rt < avg*0.75:
			interp = High
		case rt > avg*1.5:
			interp = Low
		}
		signals = append(signals, EngagementSignal{
			Type:           SignalResponseSpeed,
			Value:          responseTime.Seconds(),
			Interpretation: interp,
		})
	}

	questions := strings.Count(text, "?")
	signals = append(signals, EngagementSignal{
		Type:           SignalQuestionCount,
		Value:          float64(questions),
		Interpretation: bucket(questions >= 2, questions == 1),
	})
	return signals
}

func bucket(high, medium bool) string {
	switch {
	case high:
		return High
	case medium:
		return Medium
	default:
		return Low
	}
}

func contradictions(text string, prior []string) []ContradictionFlag {
	flags := []ContradictionFlag{}
	curPos := lexicon.Any(text, lexicon.Positive)
	curNeg := lexicon.Any(text, lexicon.Negative)
	if !curPos && !curNeg {
		return flags
	}

	for i := len(prior) - 1; i >= 0; i-- {
		prev := prior[i]
		if !(curPos && lexicon.Any(prev, lexicon.Negative)) && !(curNeg && lexicon.Any(prev, lexicon.Positive)) {
			continue
		}
		severity := SeverityMinor
		if i == len(prior)-1 {
			severity = SeverityMajor
		}
		flags = append(flags, ContradictionFlag{
			Statement1: prev,
			Statement2: text,
			Topic:      sharedTopic(prev, text),
			Severity:   severity,
		})
	}
	return flags
}

func sharedTopic(a, b string) string {
	for _, t := range lexicon.Topics {
		if lexicon.Any(a, t.Markers) && lexicon.Any(b, t.Markers) {
			return t.Name
		}
	}
	return "general"
}

// Insights summarises the history without modifying it.
func (d *Detector) Insights() Insights {
	return Insights{
		TopTopics:       d.topTopics(3),
		EngagementLevel: d.engagementLevel(),
		EmotionalTone:   d.emotionalTone(),
	}
}

func (d *Detector) topTopics(n int) []TopicCount {
	counts := []TopicCount{}
	for _, topic := range lexicon.TopicNames() {
		if c := d.topicCounts[topic]; c > 0 {
			counts = append(counts, TopicCount{Topic: topic, Count: c})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func (d *Detector) engagementLevel() string {
	if len(d.history) == 0 {
		return Low
	}
	total := 0
	for _, h := range d.history {
		total += lexicon.WordCount(h)
	}
	mean := float64(total) / float64(len(d.history))
	return bucket(mean > 50, mean > 20)
}

func (d *Detector) emotionalTone() string {
	all := strings.Join(d.history, " ")
	tone, best := "neutral", 0
	for _, t := range lexicon.Tones {
		if score := lexicon.Count(all, t.Markers); score > best {
			tone, best = t.Name, score
		}
	}
	return tone
}

// TopicCount returns how many turns mentioned topic.
func (d *Detector) TopicCount(topic string) int {
	return d.topicCounts[topic]
}

// HistoryLen returns the number of analyzed turns.
func (d *Detector) HistoryLen() int { return len(d.history) }

// Reset clears history, response times and topic counts.
func (d *Detector) Reset() {
	d.history = nil
	d.timestamps = nil
	d.topicCounts = make(map[string]int)
}
