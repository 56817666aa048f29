// Package exchange scores each user/bot exchange on its own and rolls the
// scores up across a conversation.
package exchange

import (
	"strings"
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

// Analyze scores one exchange. It keeps no state.
func Analyze(index int, user, bot string, ts time.Time) Exchange {
	return Exchange{
		Index:     index,
		UserText:  user,
		BotText:   bot,
		Timestamp: ts,
		Analysis:  analyze(user, bot),
	}
}

func analyze(user, bot string) Record {
	combined := user + " " + bot

	themes := []string{}
	for _, g := range themeCategories {
		if lexicon.Any(combined, g.Markers) {
			themes = append(themes, g.Name)
		}
	}

	sentences := len(lexicon.Sentences(user))
	questions := strings.Count(user, "?")
	punctuation := strings.Count(user, "!") + questions

	r := Record{
		Themes:              themes,
		TopicDiversity:      float64(len(themes)) / float64(len(themeCategories)),
		EmotionalVolatility: lexicon.Clamp01(float64(punctuation+lexicon.Count(user, emotionWords)) / float64(max(sentences, 1))),
		NarrativeTension:    score(user, tensionWords, tensionDivisor),
		AntenarrativeScore:  score(user, antenarrativeWords, antenarrativeDivisor),
		GrandNarrativeScore: score(user, grandNarrativeWords, grandNarrativeDivisor),
		LivingStoryScore:    score(user, livingStoryWords, livingStoryDivisor),
		Questions:           questions,
		Statements:          max(0, sentences-questions),
		WordCount:           lexicon.WordCount(user),
	}

	narrativeMean := (r.AntenarrativeScore + r.GrandNarrativeScore + r.LivingStoryScore) / 3
	r.Complexity = (r.TopicDiversity + r.EmotionalVolatility + r.NarrativeTension + narrativeMean) / 4
	r.Sentiment = sentiment(user)
	r.Orientation = orientation(user, r.Sentiment)
	r.InferredMeanings = meanings(user, r)
	return r
}

func score(text string, words []string, divisor int) float64 {
	return lexicon.Clamp01(float64(lexicon.Count(text, words)) / float64(divisor))
}

func sentiment(text string) float64 {
	pos := lexicon.Count(text, positiveWords)
	neg := lexicon.Count(text, negativeWords)
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// orientation compares pragmatic with environmental focus to pick the axis,
// and marks the stance reluctant when sentiment is negative.
func orientation(text string, sentiment float64) string {
	pragmatic := lexicon.Count(text, pragmaticWords)
	environmental := lexicon.Count(text, environmentalWords)

	axis := "PO"
	switch {
	case pragmatic > environmental:
		axis = "P"
	case environmental > pragmatic:
		axis = "PC"
	}
	if sentiment < 0 {
		return axis + "-R"
	}
	return axis + "-NR"
}

func meanings(user string, r Record) []string {
	out := []string{}
	if r.Questions > 0 && lexicon.Any(user, reassuranceWords) {
		out = append(out, MeaningSeekingReassurance)
	}
	if lexicon.Any(user, costWords) {
		out = append(out, MeaningCostSensitivity)
	}
	if lexicon.Any(user, environmentalWords) {
		out = append(out, MeaningEnvironmentalInterest)
	}
	if r.LivingStoryScore > 0 {
		out = append(out, MeaningStorySharing)
	}
	if r.AntenarrativeScore > 0 {
		out = append(out, MeaningFuturePlanning)
	}
	return out
}
