package lexicon

import "regexp"

// Group is a named marker list. Slices of groups are ordered; callers that
// pick "the first match" rely on that order.
type Group struct {
	Name    string
	Markers []string
}

// Pattern is a named regular expression over lowercased text.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// Hesitation, certainty and uncertainty markers for the clue detector.
var (
	Hesitation = []string{
		"um", "uh", "hmm", "maybe", "i guess", "not sure", "i think",
		"perhaps", "kind of", "sort of", "i don't know",
	}
	Certainty = []string{
		"definitely", "certainly", "absolutely", "sure", "always", "never",
		"must", "clearly", "no doubt", "for certain", "without a doubt",
	}
	Uncertainty = []string{
		"might", "could", "possibly", "wonder", "unsure", "unclear",
		"doubt", "if only", "what if", "hard to say",
	}
)

// Emotions are checked as regular expressions, one marker per firing group.
var Emotions = []Pattern{
	{Name: "excitement", Re: regexp.MustCompile(`\b(excited|exciting|thrilled|eager|enthusiastic|keen)\b`)},
	{Name: "worry", Re: regexp.MustCompile(`\b(worried|worry|worrying|concerned|anxious|nervous|scared)\b`)},
	{Name: "frustration", Re: regexp.MustCompile(`\b(frustrated|frustrating|annoyed|fed up|angry|sick of)\b`)},
	{Name: "pride", Re: regexp.MustCompile(`\b(proud|pride|accomplished|chuffed)\b`)},
	{Name: "hope", Re: regexp.MustCompile(`\b(hope|hopeful|hoping|optimistic)\b`)},
	{Name: "sadness", Re: regexp.MustCompile(`\b(sad|upset|gutted|heartbroken|miss)\b`)},
}

// Topics are the farm subjects tracked by the clue detector and the flow
// manager.
var Topics = []Group{
	{Name: "feed costs", Markers: []string{"feed costs", "feed cost", "feed prices", "cost of feed", "supplement costs", "palm kernel"}},
	{Name: "milk price", Markers: []string{"milk price", "payout", "milk solids", "forecast price"}},
	{Name: "herd health", Markers: []string{"herd health", "mastitis", "lameness", "vet", "calving", "somatic cell"}},
	{Name: "emissions", Markers: []string{"emissions", "methane", "carbon", "nitrous oxide", "greenhouse"}},
	{Name: "water quality", Markers: []string{"water quality", "nitrate*", "runoff", "effluent", "waterway*"}},
	{Name: "pasture", Markers: []string{"pasture", "grass", "grazing", "paddock*", "clover"}},
	{Name: "regulations", Markers: []string{"regulation*", "compliance", "council", "rules", "consent*"}},
	{Name: "labour", Markers: []string{"staff", "labour", "labor", "workers", "milkers", "hiring"}},
	{Name: "succession", Markers: []string{"succession", "next generation", "taking over the farm", "retire*"}},
	{Name: "weather", Markers: []string{"drought", "rain", "flood*", "weather", "storm"}},
	{Name: "sustainability", Markers: []string{"sustainab*", "environment*", "regenerative", "biodiversity"}},
	{Name: "technology", Markers: []string{"technology", "app", "sensor*", "robot*", "software", "collars"}},
	{Name: "community", Markers: []string{"neighbour*", "neighbor*", "community", "district", "other farmers"}},
}

// TopicNames returns the topic names in declaration order.
func TopicNames() []string {
	names := make([]string, len(Topics))
	for i, t := range Topics {
		names[i] = t.Name
	}
	return names
}

// DetectTopics returns the names of topics present in text, in declaration
// order.
func DetectTopics(text string) []string {
	var found []string
	for _, t := range Topics {
		if Any(text, t.Markers) {
			found = append(found, t.Name)
		}
	}
	return found
}

// Enthusiasm words pair with topics to form enthusiasm triggers.
var Enthusiasm = []string{
	"love", "excited", "great", "keen", "interested", "enjoy", "passionate",
	"fantastic", "brilliant",
}

// Polarity words drive contradiction detection.
var (
	Positive = []string{
		"good", "great", "love", "happy", "easy", "like", "profitable",
		"works", "working well", "better", "excited",
	}
	Negative = []string{
		"bad", "terrible", "hate", "hard", "difficult", "expensive",
		"worried", "problem", "struggling", "worse", "can't afford",
	}
)

// Tones are evaluated in declaration order for the dominant emotional tone.
var Tones = []Group{
	{Name: "optimistic", Markers: []string{"good", "great", "happy", "excited", "love", "hopeful", "looking forward"}},
	{Name: "concerned", Markers: []string{"worried", "concerned", "anxious", "afraid", "risk", "uncertain"}},
	{Name: "frustrated", Markers: []string{"frustrated", "annoyed", "angry", "fed up", "sick of", "ridiculous"}},
	{Name: "pragmatic", Markers: []string{"plan", "cost", "budget", "practical", "numbers", "return"}},
}
