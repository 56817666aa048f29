// Package response assembles a templated reply from a turn's analysis.
package response

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lexziconAI/eco-dairy-bot/internal/matrix"
	"github.com/lexziconAI/eco-dairy-bot/internal/narrative"
)

// Input is everything the generator reads.
type Input struct {
	Orientation string             `json:"orientation"`
	Matrices    matrix.Analysis    `json:"matrices"`
	Narrative   narrative.Analysis `json:"narrative"`
}

// Reply is the five reply fragments and their concatenation.
type Reply struct {
	Acknowledgment string `json:"acknowledgment"`
	Validation     string `json:"validation"`
	Insight        string `json:"insight"`
	StoryLink      string `json:"storyLink"`
	NextQuestion   string `json:"nextQuestion"`
	Full           string `json:"full"`
}

// Generate picks one template per fragment.
func Generate(in Input) Reply {
	r := Reply{
		Acknowledgment: acknowledgment(in.Orientation),
		Validation:     validation(in.Matrices.Engagement.EmotionalInvestment),
		Insight:        insight(in.Matrices.Dialectical),
		StoryLink:      storyLink(in.Matrices.Narrative.StoryType, in.Narrative),
		NextQuestion:   nextQuestion(in.Narrative.Gaps, in.Matrices.Engagement.PracticalReadiness),
	}
	r.Full = strings.Join(r.fragments(), " ")
	return r
}

func (r Reply) fragments() []string {
	return []string{r.Acknowledgment, r.Validation, r.Insight, r.StoryLink, r.NextQuestion}
}

func acknowledgment(orientation string) string {
	if s, ok := acknowledgments[orientation]; ok {
		return s
	}
	return defaultAcknowledgment
}

func validation(investment string) string {
	if s, ok := validations[investment]; ok {
		return s
	}
	return validations[matrix.InvestmentLow]
}

func insight(d matrix.DialecticalMatrix) string {
	switch {
	case d.SynthesisReadiness >= synthesisThreshold:
		return insightSynthesis
	case d.AntithesisPresence >= antithesisThreshold:
		return insightAntithesis
	case d.ThesisStrength >= thesisThreshold:
		return insightThesis
	default:
		return insightOpen
	}
}

func storyLink(storyType string, n narrative.Analysis) string {
	var theme string
	switch storyType {
	case matrix.StoryLiving:
		if n.NewLivingStory != nil {
			theme = n.NewLivingStory.Theme
		}
	case matrix.StoryAnte:
		if n.NewAnteNarrative != nil {
			theme = n.NewAnteNarrative.Aspiration
		}
	case matrix.StoryGrand:
		if n.NewGrandNarrative != nil {
			theme = n.NewGrandNarrative.Theme
		}
	}
	if tmpl, ok := themedStoryLinks[storyType]; ok && theme != "" {
		return fmt.Sprintf(tmpl, theme)
	}
	if s, ok := storyLinks[storyType]; ok {
		return s
	}
	return storyLinks[matrix.StoryLiving]
}

func nextQuestion(gaps []narrative.Gap, readiness string) string {
	if len(gaps) > 0 && gaps[0].SuggestedPrompt != "" {
		return gaps[0].SuggestedPrompt
	}
	if s, ok := readinessQuestions[readiness]; ok {
		return s
	}
	return defaultQuestion
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders the reply as HTML, one paragraph per fragment with the
// closing question emphasised. Raw HTML in the fragments is not passed
// through.
func RenderHTML(r Reply) (string, error) {
	var src strings.Builder
	for _, f := range r.fragments()[:4] {
		src.WriteString(f)
		src.WriteString("\n\n")
	}
	if r.NextQuestion != "" {
		fmt.Fprintf(&src, "**%s**\n", r.NextQuestion)
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("rendering reply: %w", err)
	}
	return buf.String(), nil
}
