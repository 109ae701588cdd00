package recall

import (
	"fmt"
	"sort"
)

const maxTopics = 5

// aggregateAssociations derives cross-result metadata from the survivor
// set: the union of participants, up to maxTopics distinct conversation
// names, and a human-readable time span.
func aggregateAssociations(memories []Memory) Associations {
	peopleSet := map[string]struct{}{}
	topicSet := map[string]struct{}{}
	var topics []string

	for _, m := range memories {
		for _, p := range m.Participants {
			peopleSet[p] = struct{}{}
		}
		if _, ok := topicSet[m.ConversationName]; !ok && len(topics) < maxTopics {
			topicSet[m.ConversationName] = struct{}{}
			topics = append(topics, m.ConversationName)
		}
	}

	people := make([]string, 0, len(peopleSet))
	for p := range peopleSet {
		people = append(people, p)
	}
	sort.Strings(people)

	return Associations{
		People:      people,
		Topics:      topics,
		TimeContext: timeContext(memories),
	}
}

// timeContext renders "all on D" when every survivor falls on the same
// calendar day, else "from D1 to D2" spanning the earliest and latest.
func timeContext(memories []Memory) string {
	if len(memories) == 0 {
		return ""
	}

	earliest, latest := memories[0].StartTS, memories[0].StartTS
	for _, m := range memories[1:] {
		if m.StartTS.Before(earliest) {
			earliest = m.StartTS
		}
		if m.StartTS.After(latest) {
			latest = m.StartTS
		}
	}

	earliestDay := earliest.Local().Format("2006-01-02")
	latestDay := latest.Local().Format("2006-01-02")
	if earliestDay == latestDay {
		return fmt.Sprintf("all on %s", earliestDay)
	}
	return fmt.Sprintf("from %s to %s", earliestDay, latestDay)
}
