// Package recall translates a user-facing recall request into Hybrid
// Index invocations, producing a human-readable explanation per result,
// aggregate "association" data across the hit set, and a short-lived
// response cache.
package recall

import (
	"time"

	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/session"
)

// Strategy is the advisory classification of a recall request. It never
// affects scoring, only the explanation text and the response label.
type Strategy string

const (
	StrategyAuto     Strategy = "auto"
	StrategySemantic Strategy = "semantic"
	StrategyTemporal Strategy = "temporal"
	StrategyPeople   Strategy = "people"
)

// Request is one recall call's parameters.
type Request struct {
	Context      string
	Kind         Strategy
	TopK         int
	MinRelevance float64
	TimeRange    *hybridindex.TimeRange
}

// Memory is one ranked, explained hit.
type Memory struct {
	SessionID        session.ID
	ConversationName string
	Participants     []string
	StartTS          time.Time
	EndTS            time.Time
	ContentText      string
	Relevance        float64
	BM25Norm         float64
	CosContent       float64
	CosContext       float64
	Explanation      string
}

// Associations aggregates cross-result metadata over a hit set.
type Associations struct {
	People      []string
	Topics      []string
	TimeContext string
}

// Response is the full result of a recall call.
type Response struct {
	RequestID        string
	Memories         []Memory
	Strategy         Strategy
	Associations     Associations
	ProcessingTimeMs int64
	CachedAt         time.Time
}

// Stats summarizes the corpus currently served.
type Stats struct {
	TotalMemories      int
	TotalConversations int
	EarliestTS         time.Time
	LatestTS           time.Time
	VectorDimension    int
	ActiveIndexType    string // "ann" or "linear"
}
