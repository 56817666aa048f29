package exchange

import "github.com/lexziconAI/eco-dairy-bot/internal/lexicon"

// themeCategories is the fixed set topic diversity is measured against.
var themeCategories = []lexicon.Group{
	{Name: "economic", Markers: []string{"cost*", "price*", "money", "profit*", "debt", "payout", "budget"}},
	{Name: "environmental", Markers: []string{"environment*", "climate", "emission*", "carbon", "water", "soil", "nitrogen"}},
	{Name: "animal welfare", Markers: []string{"cow*", "calf", "calves", "herd", "animal*", "welfare"}},
	{Name: "technology", Markers: []string{"technolog*", "app", "sensor*", "robot*", "software", "data"}},
	{Name: "regulation", Markers: []string{"regulat*", "council", "compliance", "rules", "consent*", "government"}},
	{Name: "community", Markers: []string{"community", "neighbour*", "neighbor*", "district", "catchment group"}},
	{Name: "family", Markers: []string{"family", "kids", "son", "daughter", "wife", "husband", "succession"}},
	{Name: "wellbeing", Markers: []string{"stress*", "tired", "mental", "wellbeing", "burnout", "sleep"}},
}

var emotionWords = []string{
	"worried", "worry", "excited", "frustrat*", "angry", "scared", "happy",
	"proud", "anxious", "love", "hate", "upset", "stressed",
}

var tensionWords = []string{
	"but", "however", "although", "struggle*", "conflict*", "pressure", "torn", "tension",
}

var (
	antenarrativeWords  = []string{"will", "plan*", "hope", "future", "might", "could", "going to"}
	grandNarrativeWords = []string{"always", "everyone", "industry", "world", "generation*", "society"}
	livingStoryWords    = []string{
		"remember", "last year", "we had", "happened", "my farm", "i've", "used to", "when i",
		"back then", "we tried", "years ago", "once",
	}
)

const (
	antenarrativeDivisor  = 3
	grandNarrativeDivisor = 3
	livingStoryDivisor    = 6
	tensionDivisor        = 3
)

var (
	pragmaticWords = []string{
		"cost*", "money", "profit*", "price*", "efficien*", "yield", "production",
		"budget", "practical", "afford*", "bank",
	}
	environmentalWords = []string{
		"environment*", "climate", "emission*", "carbon", "sustainab*", "water quality",
		"biodiversity", "soil", "nitrogen", "wetland*", "planting",
	}
)

var (
	positiveWords = []string{
		"good", "great", "happy", "love", "excited", "better", "proud", "improv*",
		"success*", "thanks", "helpful", "keen",
	}
	negativeWords = []string{
		"bad", "worse", "worried", "hate", "frustrat*", "struggl*", "problem*",
		"difficult", "hard", "stress*", "angry", "tired",
	}
)

var (
	reassuranceWords = []string{"worried", "worry", "unsure", "scared", "concern*", "nervous", "okay"}
	costWords        = []string{"cost*", "afford*", "expensive", "price*", "cheap*", "money"}
)
