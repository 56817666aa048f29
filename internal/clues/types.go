package clues

// Marker types.
const (
	MarkerHesitation  = "hesitation"
	MarkerCertainty   = "certainty"
	MarkerUncertainty = "uncertainty"
	MarkerEmotion     = "emotion"
)

// Topic pattern types.
const (
	PatternRepeatedConcern   = "repeated_concern"
	PatternEnthusiasmTrigger = "enthusiasm_trigger"
	PatternAvoidedSubject    = "avoided_subject"
)

// Engagement signal types.
const (
	SignalResponseLength = "response_length"
	SignalResponseSpeed  = "response_speed"
	SignalQuestionCount  = "question_count"
)

// Interpretation buckets shared by engagement signals and insights.
const (
	Low    = "low"
	Medium = "medium"
	High   = "high"
)

// Contradiction severities.
const (
	SeverityMajor = "major"
	SeverityMinor = "minor"
)

// LinguisticMarker is one lexicon hit in a user turn.
type LinguisticMarker struct {
	Type       string  `json:"type"`
	Category   string  `json:"category,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TopicPattern describes how a topic behaves across the conversation.
type TopicPattern struct {
	Type      string `json:"type"`
	Topic     string `json:"topic"`
	Frequency int    `json:"frequency"`
	Trigger   string `json:"trigger,omitempty"`
}

// EngagementSignal is a bucketed measurement of one turn.
type EngagementSignal struct {
	Type           string  `json:"type"`
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// ContradictionFlag pairs two turns whose polarity disagrees.
type ContradictionFlag struct {
	Statement1 string `json:"statement1"`
	Statement2 string `json:"statement2"`
	Topic      string `json:"topic"`
	Severity   string `json:"severity"`
}

// DetectedClues is everything the detector found in a single turn.
type DetectedClues struct {
	LinguisticMarkers []LinguisticMarker  `json:"linguisticMarkers"`
	TopicPatterns     []TopicPattern      `json:"topicPatterns"`
	EngagementSignals []EngagementSignal  `json:"engagementSignals"`
	Contradictions    []ContradictionFlag `json:"contradictionFlags"`
}

// CountType returns the number of linguistic markers of the given type.
func (d DetectedClues) CountType(markerType string) int {
	n := 0
	for _, m := range d.LinguisticMarkers {
		if m.Type == markerType {
			n++
		}
	}
	return n
}

// HasPattern reports whether a topic pattern of the given type exists for topic.
func (d DetectedClues) HasPattern(patternType, topic string) bool {
	for _, p := range d.TopicPatterns {
		if p.Type == patternType && p.Topic == topic {
			return true
		}
	}
	return false
}

// TopicCount is a topic and how many turns mentioned it.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Insights summarises the whole conversation seen so far.
type Insights struct {
	TopTopics       []TopicCount `json:"topTopics"`
	EngagementLevel string       `json:"engagementLevel"`
	EmotionalTone   string       `json:"emotionalTone"`
}
