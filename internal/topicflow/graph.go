package topicflow

// TopicGeneral is the topic a conversation starts on.
const TopicGeneral = "general"

// graph maps a topic to the topics that follow naturally from it. It is
// read-only.
var graph = map[string][]string{
	TopicGeneral:     {"feed costs", "herd health", "sustainability", "community"},
	"feed costs":     {"milk price", "pasture", "technology"},
	"milk price":     {"feed costs", "regulations", "succession"},
	"herd health":    {"pasture", "technology", "labour"},
	"emissions":      {"sustainability", "regulations", "technology", "pasture"},
	"water quality":  {"regulations", "sustainability", "community"},
	"pasture":        {"feed costs", "herd health", "weather", "emissions"},
	"regulations":    {"emissions", "water quality", "community"},
	"labour":         {"succession", "technology", "herd health"},
	"succession":     {"labour", "community", "milk price"},
	"weather":        {"pasture", "sustainability"},
	"sustainability": {"emissions", "water quality", "community", "technology"},
	"technology":     {"herd health", "emissions", "labour"},
	"community":      {"succession", "sustainability", "regulations"},
}

// Related returns the topics adjacent to topic.
func Related(topic string) []string {
	return graph[topic]
}

// Adjacent reports whether to is reachable from from in one step.
func Adjacent(from, to string) bool {
	for _, t := range graph[from] {
		if t == to {
			return true
		}
	}
	return false
}
