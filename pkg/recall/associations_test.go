package recall

import (
	"testing"
	"time"
)

func TestAggregateAssociations_SameDay(t *testing.T) {
	d := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	memories := []Memory{
		{ConversationName: "a", Participants: []string{"alice"}, StartTS: d},
		{ConversationName: "a", Participants: []string{"bob"}, StartTS: d.Add(time.Hour)},
	}
	assoc := aggregateAssociations(memories)
	if len(assoc.People) != 2 {
		t.Fatalf("expected 2 people, got %v", assoc.People)
	}
	if len(assoc.Topics) != 1 {
		t.Fatalf("expected 1 deduplicated topic, got %v", assoc.Topics)
	}
	if assoc.TimeContext != "all on 2026-02-01" {
		t.Errorf("unexpected time context: %q", assoc.TimeContext)
	}
}

func TestAggregateAssociations_SpanningDays(t *testing.T) {
	memories := []Memory{
		{ConversationName: "a", StartTS: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)},
		{ConversationName: "b", StartTS: time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)},
	}
	assoc := aggregateAssociations(memories)
	if assoc.TimeContext != "from 2026-02-01 to 2026-02-03" {
		t.Errorf("unexpected time context: %q", assoc.TimeContext)
	}
}

func TestAggregateAssociations_TopicsCapAtFive(t *testing.T) {
	var memories []Memory
	for i := 0; i < 8; i++ {
		memories = append(memories, Memory{ConversationName: string(rune('a' + i)), StartTS: time.Now()})
	}
	assoc := aggregateAssociations(memories)
	if len(assoc.Topics) != 5 {
		t.Fatalf("expected topics capped at 5, got %d", len(assoc.Topics))
	}
}
