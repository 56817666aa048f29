package narrative

import (
	"regexp"

	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
)

var livingMarkers = []string{
	"i remember", "last year", "last season", "we had", "i've seen", "when i",
	"back in", "we tried", "i used to", "happened", "experienced", "my dad",
	"we lost", "years ago",
}

var livingThemes = []lexicon.Group{
	{Name: "animal welfare", Markers: []string{"cow*", "calf", "calves", "herd", "animal*"}},
	{Name: "financial pressure", Markers: []string{"cost*", "money", "debt", "price*", "bank"}},
	{Name: "land stewardship", Markers: []string{"soil", "pasture", "land", "water", "river*"}},
	{Name: "family legacy", Markers: []string{"family", "dad", "father", "kids", "generation*"}},
	{Name: "weather resilience", Markers: []string{"drought", "flood*", "rain", "storm*"}},
	{Name: "community ties", Markers: []string{"neighbour*", "neighbor*", "community", "district"}},
}

var livingEmotions = []lexicon.Group{
	{Name: "pride", Markers: []string{"proud", "pride", "chuffed"}},
	{Name: "frustration", Markers: []string{"frustrat*", "annoyed", "fed up", "angry"}},
	{Name: "worry", Markers: []string{"worried", "worry", "anxious", "scared", "nervous"}},
	{Name: "hope", Markers: []string{"hope*", "optimistic", "looking forward"}},
	{Name: "joy", Markers: []string{"happy", "loved", "great", "enjoyed"}},
	{Name: "grief", Markers: []string{"lost", "sad", "grief", "miss*"}},
}

var livingOutcomes = []lexicon.Group{
	{Name: "success", Markers: []string{"worked", "success*", "improved", "better"}},
	{Name: "failure", Markers: []string{"failed", "didn't work", "lost", "worse"}},
	{Name: "learning", Markers: []string{"learned", "learnt", "realised", "realized", "lesson"}},
}

var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "always": true, "because": true,
	"before": true, "being": true, "could": true, "didn't": true, "doesn't": true,
	"every": true, "first": true, "going": true, "might": true, "never": true,
	"other": true, "really": true, "remember": true, "should": true, "something": true,
	"still": true, "their": true, "there": true, "these": true, "thing": true,
	"think": true, "those": true, "through": true, "under": true, "until": true,
	"we've": true, "where": true, "which": true, "while": true, "would": true,
	"years": true,
}

var anteMarkers = []string{
	"i hope", "i want", "we plan", "planning to", "going to", "in the future",
	"someday", "next year", "one day", "would like to", "aim to", "i'd love to",
}

var (
	timeframeShort  = []string{"next month", "this season", "soon", "next week", "this year"}
	timeframeMedium = []string{"next year", "couple of years", "few years", "next season"}
	timeframeLong   = []string{"someday", "one day", "decade", "generation*", "long term", "retire*"}
)

var (
	feasibilityEvidence = []string{"already", "trial*", "tested", "proven", "data", "results"}
	feasibilityCost     = []string{"expensive", "can't afford", "cost*", "loan", "debt"}
	feasibilityHedging  = []string{"maybe", "might", "perhaps", "if only", "hopefully"}
)

var universalMarkers = []string{
	"everyone", "all farmers", "always", "never", "the industry", "the world",
	"society", "future generations", "every farmer", "the whole country",
}

// universalThemes match only when every constituent word is present.
var universalThemes = []lexicon.Group{
	{Name: "feeding the world", Markers: []string{"feed", "world"}},
	{Name: "caring for the land", Markers: []string{"land", "care"}},
	{Name: "farming is family", Markers: []string{"farm", "family"}},
	{Name: "hard work pays off", Markers: []string{"hard", "work"}},
	{Name: "nature sets the terms", Markers: []string{"weather", "nature"}},
	{Name: "change is coming", Markers: []string{"change", "future"}},
}

var (
	applicabilityUniversal = []string{"everyone", "world", "all farmers", "every"}
	applicabilityRegional  = []string{"region*", "country", "nz", "catchment", "district"}
)

// superpositionPairs are antonyms whose co-presence holds two futures open.
var superpositionPairs = [][2]string{
	{"excited", "worried"},
	{"hope", "fear"},
	{"want", "can't"},
	{"love", "hate"},
	{"sure", "unsure"},
}

// entanglementPairs are concepts whose co-presence binds them together.
var entanglementPairs = [][2]string{
	{"cost*", "environment*"},
	{"herd", "land"},
	{"family", "farm"},
	{"community", "future"},
}

// evolutionStages are checked most advanced first.
var evolutionStages = []struct {
	Name string
	Re   *regexp.Regexp
}{
	{"return", regexp.MustCompile(`\b(back to where|full circle|teach others|pass it on|share what)\b`)},
	{"transformation", regexp.MustCompile(`\b(changed everything|transformed|new way|different farmer|never going back)\b`)},
	{"ordeal", regexp.MustCompile(`\b(struggl\w*|crisis|hardest|nearly lost|breaking point)\b`)},
	{"trials", regexp.MustCompile(`\b(tried|trying|trial\w*|experiment\w*|testing)\b`)},
	{"threshold", regexp.MustCompile(`\b(decided|commit\w*|first step|took the plunge|signed up)\b`)},
	{"call", regexp.MustCompile(`\b(thinking about|considering|heard about|wonder\w*|curious)\b`)},
}

// StageInitiation is the stage of a story with no journey markers yet.
const StageInitiation = "initiation"

var (
	directionForward  = []string{"progress*", "moving forward", "better", "improving", "next step"}
	directionBackward = []string{"going back", "giving up", "worse", "regress*", "quit*"}

	catalystWords = []string{
		"grant*", "neighbour*", "advisor", "success*", "data", "price", "regulation*", "opportunit*",
	}
	resistanceWords = []string{
		"cost*", "debt", "time", "skeptic*", "sceptic*", "tradition*", "risk*", "weather",
	}
)

var gapPrompts = map[string]string{
	GapMissingLiving:     "Can you tell me about a time on the farm that really stuck with you?",
	GapWeakAnte:          "Looking ahead, what would you love the farm to look like in five years?",
	GapDisconnectedGrand: "How do you think your experience fits with what other farmers are going through?",
}

const defaultUniversalTruth = "Every farm's story is part of a bigger picture."
