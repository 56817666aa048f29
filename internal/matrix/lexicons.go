package matrix

// Marker lists scored by the engine. They are independent of the exchange
// analyzer's lists even where the concepts overlap.
var (
	personalFocus = []string{
		"my farm", "my family", "my herd", "my income", "my business",
		"myself", "personally", "our farm", "bottom line", "profit*",
	}
	communityFocus = []string{
		"community", "neighbour*", "neighbor*", "district", "local",
		"other farmers", "catchment", "together", "co-op", "cooperative",
	}
	climateFocus = []string{
		"climate", "emissions", "methane", "carbon", "environment*",
		"sustainab*", "warming", "biodiversity", "water quality", "future generations",
	}
	reluctance = []string{
		"can't afford", "too expensive", "not convinced", "don't see",
		"skeptical", "sceptical", "waste of", "not worth", "don't want",
		"red tape", "forced", "worried",
	}

	conflictWords = []string{
		"but", "however", "although", "though", "on the other hand",
		"yet", "whereas", "versus",
	}
	opennessWords = []string{
		"maybe we could", "what if", "willing", "open to", "consider*",
		"try", "explore", "balance", "both", "middle ground", "compromise",
	}

	futureWords = []string{
		"will", "going to", "plan*", "next year", "future", "hope to",
		"want to", "someday",
	}
	universalWords = []string{
		"everyone", "all farmers", "everywhere", "world", "global",
		"the industry", "whole country", "every farmer", "society",
	}
	convergenceWords = []string{
		"together", "agree*", "common ground", "align*", "shared", "both sides",
	}
	areaWords = []string{
		"neighbour*", "neighbor*", "local", "district", "region*",
		"community", "our area", "down the road",
	}

	actionWords = []string{
		"started", "doing", "implemented", "installed", "bought",
		"changed", "already", "switched", "built",
	}
	planWords = []string{
		"plan*", "going to", "next season", "budget*", "considering",
		"thinking about", "looking into",
	}
	resourceWords = []string{
		"funding", "grant*", "money", "subsid*", "tool*", "equipment",
		"help with", "resources", "advisor",
	}
	validationWords = []string{
		"right thing", "am i", "is it worth", "should i", "does that make sense",
		"others doing", "normal", "on the right track",
	}
)
