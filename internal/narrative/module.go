// Package narrative reads conversation turns as stories: lived experience
// (living stories), plans not yet realised (antenarratives) and universal
// themes (grand narratives), plus the tensions held between them.
package narrative

import (
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

const connectionThreshold = 0.2

// Module accumulates stories and quantum narratives over a conversation. It
// is not safe for concurrent use.
type Module struct {
	collection Collection
	quantum    []QuantumNarrative
	now        func() time.Time
}

// NewModule returns a module with an empty collection.
func NewModule() *Module {
	return &Module{
		collection: Collection{
			LivingStories:   []LivingStory{},
			AnteNarratives:  []AnteNarrative{},
			GrandNarratives: []GrandNarrative{},
			Connections:     []Connection{},
		},
		now: time.Now,
	}
}

// Analyze reads text stamped with the current time.
func (m *Module) Analyze(text string) Analysis {
	return m.AnalyzeAt(text, m.now())
}

// AnalyzeAt extracts stories from text, updates the collection and returns
// the narrative reading of the whole conversation so far.
func (m *Module) AnalyzeAt(text string, ts time.Time) Analysis {
	prior := m.storyContent()

	var a Analysis
	if s := extractLiving(text, ts); s != nil {
		m.collection.LivingStories = append(m.collection.LivingStories, *s)
		a.NewLivingStory = s
	}
	if s := extractAnte(text, ts); s != nil {
		m.collection.AnteNarratives = append(m.collection.AnteNarratives, *s)
		a.NewAnteNarrative = s
	}
	if s := extractGrand(text, prior, ts); s != nil {
		m.collection.GrandNarratives = append(m.collection.GrandNarratives, *s)
		a.NewGrandNarrative = s
	}
	m.collection.Connections = connections(m.collection)

	a.Quantum = []QuantumNarrative{}
	for _, q := range []*QuantumNarrative{detectSuperposition(text, ts), detectEntanglement(text, ts)} {
		if q != nil {
			m.quantum = append(m.quantum, *q)
			a.Quantum = append(a.Quantum, *q)
		}
	}

	a.Collection = m.Collection()
	a.Gaps = gaps(m.collection)
	a.Evolution = classifyEvolution(text)
	a.Coherence = m.Coherence()
	return a
}

// storyContent lists the content of every collected story, living first,
// then ante, then grand.
func (m *Module) storyContent() []string {
	var out []string
	for _, s := range m.collection.LivingStories {
		out = append(out, s.Content)
	}
	for _, s := range m.collection.AnteNarratives {
		out = append(out, s.Content)
	}
	for _, s := range m.collection.GrandNarratives {
		out = append(out, s.Content)
	}
	return out
}

func gaps(c Collection) []Gap {
	out := []Gap{}
	add := func(kind string) {
		out = append(out, Gap{Type: kind, SuggestedPrompt: gapPrompts[kind]})
	}
	if len(c.LivingStories) == 0 {
		add(GapMissingLiving)
	}
	if len(c.AnteNarratives) == 0 && len(c.LivingStories) > 2 {
		add(GapWeakAnte)
	}
	if len(c.GrandNarratives) == 0 && len(c.LivingStories)+len(c.AnteNarratives) > 4 {
		add(GapDisconnectedGrand)
	}
	return out
}

type storyRef struct {
	id    string
	words map[string]bool
}

func connections(c Collection) []Connection {
	var refs []storyRef
	add := func(id, content string) {
		words := map[string]bool{}
		for _, w := range lexicon.Tokens(content) {
			if len(w) > 3 {
				words[w] = true
			}
		}
		refs = append(refs, storyRef{id: id, words: words})
	}
	for _, s := range c.LivingStories {
		add(s.ID, s.Content)
	}
	for _, s := range c.AnteNarratives {
		add(s.ID, s.Content)
	}
	for _, s := range c.GrandNarratives {
		add(s.ID, s.Content)
	}

	out := []Connection{}
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			if r := overlap(refs[i].words, refs[j].words); r > connectionThreshold {
				out = append(out, Connection{
					FromID:   refs[i].id,
					ToID:     refs[j].id,
					Type:     ConnectionReinforcement,
					Strength: r,
				})
			}
		}
	}
	return out
}

func overlap(a, b map[string]bool) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

// Coherence weighs which story kinds are present plus the mean coherence of
// every quantum narrative this module has produced.
func (m *Module) Coherence() float64 {
	c := 0.0
	if len(m.collection.LivingStories) > 0 {
		c += 0.3
	}
	if len(m.collection.AnteNarratives) > 0 {
		c += 0.3
	}
	if len(m.collection.GrandNarratives) > 0 {
		c += 0.2
	}
	if len(m.quantum) > 0 {
		sum := 0.0
		for _, q := range m.quantum {
			sum += q.QuantumCoherence
		}
		c += 0.2 * sum / float64(len(m.quantum))
	}
	return c
}

// Collection returns a copy of the collected stories.
func (m *Module) Collection() Collection {
	return Collection{
		LivingStories:   append([]LivingStory{}, m.collection.LivingStories...),
		AnteNarratives:  append([]AnteNarrative{}, m.collection.AnteNarratives...),
		GrandNarratives: append([]GrandNarrative{}, m.collection.GrandNarratives...),
		Connections:     append([]Connection{}, m.collection.Connections...),
	}
}

// QuantumNarratives returns every quantum narrative produced so far.
func (m *Module) QuantumNarratives() []QuantumNarrative {
	return append([]QuantumNarrative{}, m.quantum...)
}
