package lens

import (
	"encoding/json"
	"fmt"
	"strings"
)

// transcriptWindow is how many recent turns the model sees.
const transcriptWindow = 20

const systemPreamble = `You are a friendly, practical assistant talking with a New Zealand dairy farmer about their farm, their worries and their plans. You never lecture. You reflect what the farmer has said, acknowledge the pressures they are under, and ask one good question at a time.

An analysis of the conversation so far is given below. Use it to decide what to focus on, but do not quote scores or labels back to the farmer.

You MUST respond with valid JSON matching this schema:
{
  "response": "your reply to the farmer, 2-4 sentences",
  "lenses": {
    "systems": "how the farm, the catchment and the market interact in what the farmer described",
    "chaos": "which small changes could tip things, and where there is uncertainty",
    "narrative": "the story the farmer is telling about themselves and where it could go",
    "themes": ["short theme labels"],
    "metrics": {"openness": 0.0, "concern": 0.0, "readiness": 0.0}
  }
}`

type promptContext struct {
	Metadata    Metadata `json:"analysisMetadata"`
	Matrices    any      `json:"matrices"`
	Insights    any      `json:"insights"`
	Flow        any      `json:"flow"`
	Gaps        any      `json:"narrativeGaps"`
	Coherence   float64  `json:"narrativeCoherence"`
	TemplateTip string   `json:"suggestedQuestion"`
}

func buildSystemPrompt(l *Lens) (string, error) {
	ctx := promptContext{
		Metadata:  l.Metadata,
		Matrices:  l.Matrices,
		Insights:  l.Insights,
		Gaps:      l.Narrative.Gaps,
		Coherence: l.Narrative.Coherence,
		Flow: map[string]any{
			"currentTopic":   l.Flow.CurrentTopic,
			"momentum":       l.Flow.Momentum,
			"depthLevel":     l.Flow.DepthLevel,
			"shouldPivot":    l.Flow.ShouldPivot,
			"suggestedTopic": l.Flow.SuggestedTopic,
		},
		TemplateTip: l.Reply.NextQuestion,
	}
	b, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\n## Conversation Analysis\n")
	sb.Write(b)
	sb.WriteString("\n")
	return sb.String(), nil
}

func buildTranscript(turns []Turn) string {
	if len(turns) > transcriptWindow {
		turns = turns[len(turns)-transcriptWindow:]
	}
	var b strings.Builder
	b.WriteString("## Conversation\n")
	for _, t := range turns {
		speaker := "Farmer"
		if t.Role == RoleBot {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, t.Text)
	}
	b.WriteString("\nReply to the farmer's last message.")
	return b.String()
}
