package recall

import "strings"

// whoWords and whenWords are the keyword heuristics used to classify an
// "auto" request. Order matters: who-words are checked first, so a
// context containing both a who-word and a when-word ("who said that
// yesterday") classifies as people, matching the original's own
// precedence.
var whoWords = []string{
	"who", "谁", "某人", "他", "她",
}

var whenWords = []string{
	"when", "yesterday", "什么时候", "昨天", "今天", "上周", "去年", "上个月", "几点",
}

// classify resolves the advisory Strategy for a free-form context
// string. It is pure text matching: it never consults the index or
// affects numeric scoring.
func classify(context string) Strategy {
	lower := strings.ToLower(context)
	for _, w := range whoWords {
		if strings.Contains(lower, w) {
			return StrategyPeople
		}
	}
	for _, w := range whenWords {
		if strings.Contains(lower, w) {
			return StrategyTemporal
		}
	}
	return StrategySemantic
}
