package response

import "github.com/lexziconAI/eco-dairy-bot/internal/matrix"

var acknowledgments = map[string]string{
	matrix.AxisPersonalReluctant:  "I hear that this has to make sense for your own operation before anything else.",
	matrix.AxisPersonalOpen:       "It's clear you're keen to find what works best on your farm.",
	matrix.AxisCommunityReluctant: "It sounds like you're wary of how changes land with the people around you.",
	matrix.AxisCommunityOpen:      "I can tell the wider farming community matters a lot to you.",
	matrix.AxisClimateReluctant:   "I hear some doubt about where all the climate talk is heading.",
	matrix.AxisClimateOpen:        "You're clearly thinking about the bigger environmental picture.",
}

const defaultAcknowledgment = "Thanks for sharing that."

var validations = map[string]string{
	matrix.InvestmentHigh:   "Those feelings make complete sense given how much you've put into this.",
	matrix.InvestmentMedium: "That's a fair way to look at it.",
	matrix.InvestmentLow:    "That's a practical place to start.",
}

const (
	insightSynthesis  = "You seem to be finding ways to hold both sides of this together."
	insightAntithesis = "It sounds like you're weighing pressures that pull in different directions."
	insightThesis     = "You've got a clear view on this, and that's a strong base to build from."
	insightOpen       = "There's a lot to think through here, and there's no single right answer."

	synthesisThreshold  = 0.5
	antithesisThreshold = 0.4
	thesisThreshold     = 0.4
)

var storyLinks = map[string]string{
	matrix.StoryLiving: "Your own experience is worth a lot here.",
	matrix.StoryAnte:   "Where you want to take the farm gives us something to work towards.",
	matrix.StoryGrand:  "That connects to something a lot of farmers across the country are feeling.",
}

// themedStoryLinks are used when the turn produced a story with a theme.
var themedStoryLinks = map[string]string{
	matrix.StoryLiving: "What you've been through with %s is worth a lot here.",
	matrix.StoryAnte:   "Your plan to %s gives us something to work towards.",
	matrix.StoryGrand:  "The idea of %s connects you with a lot of farmers across the country.",
}

var readinessQuestions = map[string]string{
	matrix.ReadinessExploring: "What would you most like to know more about?",
	matrix.ReadinessPlanning:  "What would the first step look like for you?",
	matrix.ReadinessActing:    "How is it going so far, and what support would help?",
}

const defaultQuestion = "What's on your mind most right now?"
