package exchange

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAnalyzeExchange(t *testing.T) {
	ts := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e := Analyze(2, "The feed cost is killing us but the soil looks good. What should I do?", "Let's look at your herd.", ts)

	assert.Equal(t, 2, e.Index)
	assert.Equal(t, ts, e.Timestamp)

	r := e.Analysis
	assert.Equal(t, []string{"economic", "environmental", "animal welfare"}, r.Themes)
	assert.InDelta(t, 3.0/8, r.TopicDiversity, 1e-9)
	assert.InDelta(t, 0.5, r.EmotionalVolatility, 1e-9)
	assert.InDelta(t, 1.0/3, r.NarrativeTension, 1e-9)
	assert.Zero(t, r.AntenarrativeScore)
	assert.Zero(t, r.GrandNarrativeScore)
	assert.Zero(t, r.LivingStoryScore)
	assert.Equal(t, 1, r.Questions)
	assert.Equal(t, 1, r.Statements)
	assert.Equal(t, 15, r.WordCount)
	assert.InDelta(t, (3.0/8+0.5+1.0/3)/4, r.Complexity, 1e-9)
	assert.InDelta(t, 1.0, r.Sentiment, 1e-9)
	assert.Equal(t, "PO-NR", r.Orientation)
	assert.Equal(t, []string{MeaningCostSensitivity, MeaningEnvironmentalInterest}, r.InferredMeanings)
}

func TestOrientationDecisionTable(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Profit and price matter, it's a bad year", "P-R"},
		{"Profit and price matter", "P-NR"},
		{"Carbon and emissions are good to cut", "PC-NR"},
		{"Climate is a problem", "PC-R"},
		{"Hello there", "PO-NR"},
		{"The cost of planting is a problem", "PO-R"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Analyze(0, tc.text, "", time.Time{}).Analysis.Orientation)
		})
	}
}

func TestSentiment(t *testing.T) {
	assert.Zero(t, sentiment("the paddock"))
	assert.InDelta(t, -1.0, sentiment("it's bad and hard"), 1e-9)
	assert.InDelta(t, 0.0, sentiment("good but bad"), 1e-9)
	assert.InDelta(t, 1.0/3, sentiment("good, great, but hard"), 1e-9)
}

func TestScoresAreClamped(t *testing.T) {
	r := Analyze(0,
		"I remember last year we had what happened on my farm, I've used to do it when I was young, back then we tried it years ago once. Wow!!! Really?!",
		"", time.Time{}).Analysis

	assert.Equal(t, 1.0, r.LivingStoryScore)
	assert.Equal(t, 1.0, r.EmotionalVolatility)
	for _, v := range []float64{r.TopicDiversity, r.NarrativeTension, r.AntenarrativeScore, r.GrandNarrativeScore, r.Complexity} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Contains(t, r.InferredMeanings, MeaningStorySharing)
}

func TestEmptyUserText(t *testing.T) {
	r := Analyze(0, "", "", time.Time{}).Analysis
	assert.Zero(t, r.Questions)
	assert.Zero(t, r.Statements)
	assert.Zero(t, r.Complexity)
	assert.Zero(t, r.Sentiment)
	assert.Equal(t, "PO-NR", r.Orientation)
	assert.Empty(t, r.Themes)
	assert.NotNil(t, r.InferredMeanings)
}

func TestInferredMeanings(t *testing.T) {
	r := Analyze(0, "I'm worried, will the new rules be okay? We plan to fence the wetland.", "", time.Time{}).Analysis
	assert.Equal(t, []string{
		MeaningSeekingReassurance,
		MeaningEnvironmentalInterest,
		MeaningFuturePlanning,
	}, r.InferredMeanings)
}

func TestMetricsEmptyLog(t *testing.T) {
	var l Log
	m := l.Metrics()
	assert.Zero(t, m.TotalExchanges)
	assert.NotNil(t, m.OrientationJourney)
	assert.NotNil(t, m.ThemeFrequency)
	assert.Empty(t, m.DominantOrientation)
}

func TestMetricsRecomputedFromWholeLog(t *testing.T) {
	var l Log
	l.Add(Analyze(0, "Profit and price matter", "", time.Time{}))
	l.Add(Analyze(1, "Climate is a problem", "", time.Time{}))

	m := l.Metrics()
	assert.Equal(t, 2, m.TotalExchanges)
	assert.Equal(t, []string{"P-NR", "PC-R"}, m.OrientationJourney)
	assert.Equal(t, "P-NR", m.DominantOrientation, "ties go to the first orientation seen")
	assert.InDelta(t, -0.5, m.AverageSentiment, 1e-9)
	assert.Equal(t, 1, m.ThemeFrequency["economic"])
	assert.Equal(t, 1, m.ThemeFrequency["environmental"])

	if diff := cmp.Diff(m, l.Metrics()); diff != "" {
		t.Errorf("Metrics not idempotent (-first +second):\n%s", diff)
	}

	l.Add(Analyze(2, "Emissions and carbon are a worry, it's bad", "", time.Time{}))
	m = l.Metrics()
	require.Len(t, m.SentimentJourney, 3)
	assert.Equal(t, "PC-R", m.DominantOrientation)
	assert.InDelta(t, (0.0-1-1)/3, m.AverageSentiment, 1e-9)
	assert.Equal(t, 2, m.ThemeFrequency["environmental"])
}
