package exchange

import "time"

// Exchange is one user turn and the bot turn that answered it.
type Exchange struct {
	Index     int       `json:"index"`
	UserText  string    `json:"userText"`
	BotText   string    `json:"botText"`
	Timestamp time.Time `json:"timestamp"`
	Analysis  Record    `json:"analysis"`
}

// Record is the fixed per-exchange analysis. Scores are in [0,1] except
// Sentiment, which is in [-1,1].
type Record struct {
	Orientation         string   `json:"orientation"`
	Sentiment           float64  `json:"sentiment"`
	Themes              []string `json:"themes"`
	Complexity          float64  `json:"complexity"`
	TopicDiversity      float64  `json:"topicDiversity"`
	EmotionalVolatility float64  `json:"emotionalVolatility"`
	NarrativeTension    float64  `json:"narrativeTension"`
	AntenarrativeScore  float64  `json:"antenarrativeScore"`
	GrandNarrativeScore float64  `json:"grandNarrativeScore"`
	LivingStoryScore    float64  `json:"livingStoryScore"`
	Questions           int      `json:"questions"`
	Statements          int      `json:"statements"`
	WordCount           int      `json:"wordCount"`
	InferredMeanings    []string `json:"inferredMeanings"`
}

// Inferred meaning tags.
const (
	MeaningSeekingReassurance    = "seeking_reassurance"
	MeaningCostSensitivity       = "cost_sensitivity"
	MeaningEnvironmentalInterest = "environmental_interest"
	MeaningStorySharing          = "story_sharing"
	MeaningFuturePlanning        = "future_planning"
)

// NarrativeBalance is the mean of each narrative score across exchanges.
type NarrativeBalance struct {
	Antenarrative  float64 `json:"antenarrative"`
	GrandNarrative float64 `json:"grandNarrative"`
	LivingStory    float64 `json:"livingStory"`
}

// Metrics aggregates every exchange in a log.
type Metrics struct {
	TotalExchanges      int              `json:"totalExchanges"`
	TotalQuestions      int              `json:"totalQuestions"`
	TotalWords          int              `json:"totalWords"`
	AverageComplexity   float64          `json:"averageComplexity"`
	AverageSentiment    float64          `json:"averageSentiment"`
	AverageTension      float64          `json:"averageTension"`
	AverageVolatility   float64          `json:"averageVolatility"`
	OrientationJourney  []string         `json:"orientationJourney"`
	SentimentJourney    []float64        `json:"sentimentJourney"`
	ComplexityJourney   []float64        `json:"complexityJourney"`
	ThemeFrequency      map[string]int   `json:"themeFrequency"`
	DominantOrientation string           `json:"dominantOrientation"`
	NarrativeBalance    NarrativeBalance `json:"narrativeBalance"`
}
