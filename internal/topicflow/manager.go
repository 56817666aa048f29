// Package topicflow tracks which farm topic a conversation is on, how it
// moved between topics, and whether it is gaining or losing momentum.
package topicflow

import (
	"strings"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

// Momentum values.
const (
	MomentumBuilding  = "building"
	MomentumSteady    = "steady"
	MomentumDeclining = "declining"
)

// Depth levels.
const (
	DepthSurface   = "surface"
	DepthExploring = "exploring"
	DepthDeep      = "deep"
)

var (
	positiveEngagement = []string{
		"tell me more", "interesting", "yes", "keen", "want to know",
		"good idea", "how do", "sounds good",
	}
	negativeEngagement = []string{
		"not really", "whatever", "don't care", "no idea", "doesn't matter",
		"i guess", "not sure", "moving on",
	}
)

// Transition records a change of topic.
type Transition struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Smooth bool   `json:"smooth"`
	Depth  int    `json:"depth"`
}

// BranchPoint records a turn that touched several topics at once.
type BranchPoint struct {
	Topic        string   `json:"topic"`
	Alternatives []string `json:"alternatives"`
	Depth        int      `json:"depth"`
}

// State is the flow of the conversation so far.
type State struct {
	CurrentTopic   string        `json:"currentTopic"`
	PreviousTopics []string      `json:"previousTopics"`
	Depth          int           `json:"depth"`
	Momentum       string        `json:"momentum"`
	BranchPoints   []BranchPoint `json:"branchPoints"`
	Transitions    []Transition  `json:"topicTransitions"`
}

// Manager mutates a State one turn at a time. It is not safe for concurrent
// use.
type Manager struct {
	state State
}

// NewManager starts a conversation on the general topic.
func NewManager() *Manager {
	return &Manager{state: State{
		CurrentTopic:   TopicGeneral,
		PreviousTopics: []string{},
		Momentum:       MomentumSteady,
		BranchPoints:   []BranchPoint{},
		Transitions:    []Transition{},
	}}
}

// Update advances the flow with one turn and the topics detected in it.
func (m *Manager) Update(text string, detected []string) {
	s := &m.state
	s.Depth++

	next := s.CurrentTopic
	if len(detected) > 0 {
		next = detected[0]
		for _, t := range detected {
			if Adjacent(s.CurrentTopic, t) {
				next = t
				break
			}
		}
	}

	if next != s.CurrentTopic {
		s.Transitions = append(s.Transitions, Transition{
			From:   s.CurrentTopic,
			To:     next,
			Smooth: Adjacent(s.CurrentTopic, next),
			Depth:  s.Depth,
		})
		s.PreviousTopics = append(s.PreviousTopics, s.CurrentTopic)
		s.CurrentTopic = next
	}

	s.Momentum = momentum(text)

	if len(detected) > 1 {
		s.BranchPoints = append(s.BranchPoints, BranchPoint{
			Topic:        s.CurrentTopic,
			Alternatives: append([]string(nil), detected...),
			Depth:        s.Depth,
		})
	}
}

func momentum(text string) string {
	words := lexicon.WordCount(text)
	switch {
	case words > 20 && (strings.Contains(text, "?") || lexicon.Any(text, positiveEngagement)):
		return MomentumBuilding
	case words < 10 || lexicon.Any(text, negativeEngagement):
		return MomentumDeclining
	default:
		return MomentumSteady
	}
}

// ShouldPivot reports whether it is time to move to another topic.
func (m *Manager) ShouldPivot() bool {
	switch m.state.Momentum {
	case MomentumDeclining:
		return m.state.Depth > 3
	case MomentumSteady:
		return m.state.Depth > 5
	default:
		return false
	}
}

// SuggestNextTopic returns the first neighbour of the current topic that has
// not been visited yet.
func (m *Manager) SuggestNextTopic() (string, bool) {
	visited := make(map[string]bool, len(m.state.PreviousTopics))
	for _, t := range m.state.PreviousTopics {
		visited[t] = true
	}
	for _, t := range Related(m.state.CurrentTopic) {
		if !visited[t] {
			return t, true
		}
	}
	return "", false
}

// DepthLevel buckets the depth counter.
func (m *Manager) DepthLevel() string {
	switch {
	case m.state.Depth < 3:
		return DepthSurface
	case m.state.Depth < 6:
		return DepthExploring
	default:
		return DepthDeep
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	s := m.state
	s.PreviousTopics = append([]string{}, s.PreviousTopics...)
	s.Transitions = append([]Transition{}, s.Transitions...)
	s.BranchPoints = make([]BranchPoint, len(m.state.BranchPoints))
	for i, b := range m.state.BranchPoints {
		b.Alternatives = append([]string{}, b.Alternatives...)
		s.BranchPoints[i] = b
	}
	return s
}
