package api

import (
	"time"

	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/recall"
)

// recallRequest is the wire shape of POST /recall.
type recallRequest struct {
	Context      string        `json:"context"`
	RecallKind   string        `json:"recall_kind"`
	TopK         int           `json:"top_k"`
	MinRelevance float64       `json:"min_relevance"`
	TimeRange    *timeRangeDTO `json:"time_range,omitempty"`
}

type timeRangeDTO struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (r recallRequest) toServiceRequest() recall.Request {
	req := recall.DefaultRequest(r.Context)
	if r.RecallKind != "" {
		req.Kind = recall.Strategy(r.RecallKind)
	}
	if r.TopK > 0 {
		req.TopK = r.TopK
	}
	if r.MinRelevance > 0 {
		req.MinRelevance = r.MinRelevance
	}
	if r.TimeRange != nil {
		req.TimeRange = &hybridindex.TimeRange{Start: r.TimeRange.Start, End: r.TimeRange.End}
	}
	return req
}

type memoryDTO struct {
	SessionID        string    `json:"session_id"`
	ConversationName string    `json:"conversation_name"`
	Participants     []string  `json:"participants"`
	StartTS          time.Time `json:"start_ts"`
	EndTS            time.Time `json:"end_ts"`
	ContentText      string    `json:"content_text"`
	Relevance        float64   `json:"relevance"`
	BM25Norm         float64   `json:"bm25_norm"`
	CosContent       float64   `json:"cos_content"`
	CosContext       float64   `json:"cos_context"`
	Explanation      string    `json:"explanation"`
}

func toMemoryDTO(m recall.Memory) memoryDTO {
	return memoryDTO{
		SessionID:        m.SessionID.String(),
		ConversationName: m.ConversationName,
		Participants:     m.Participants,
		StartTS:          m.StartTS,
		EndTS:            m.EndTS,
		ContentText:      m.ContentText,
		Relevance:        m.Relevance,
		BM25Norm:         m.BM25Norm,
		CosContent:       m.CosContent,
		CosContext:       m.CosContext,
		Explanation:      m.Explanation,
	}
}

type associationsDTO struct {
	People      []string `json:"people"`
	Topics      []string `json:"topics"`
	TimeContext string   `json:"time_context"`
}

type recallResponse struct {
	RequestID        string          `json:"request_id"`
	Memories         []memoryDTO     `json:"memories"`
	Strategy         string          `json:"strategy"`
	Associations     associationsDTO `json:"associations"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

func toRecallResponse(resp recall.Response) recallResponse {
	memories := make([]memoryDTO, len(resp.Memories))
	for i, m := range resp.Memories {
		memories[i] = toMemoryDTO(m)
	}
	return recallResponse{
		RequestID:  resp.RequestID,
		Memories:   memories,
		Strategy:   string(resp.Strategy),
		Associations: associationsDTO{
			People:      resp.Associations.People,
			Topics:      resp.Associations.Topics,
			TimeContext: resp.Associations.TimeContext,
		},
		ProcessingTimeMs: resp.ProcessingTimeMs,
	}
}

type topicRequest struct {
	Topic        string  `json:"topic"`
	TopK         int     `json:"top_k"`
	MinRelevance float64 `json:"min_relevance"`
}

type peopleRequest struct {
	Person          string  `json:"person"`
	IncludeMentions bool    `json:"include_mentions"`
	TopK            int     `json:"top_k"`
	MinRelevance    float64 `json:"min_relevance"`
}

type timeAssociateRequest struct {
	TimeRange    timeRangeDTO `json:"time_range"`
	TopK         int          `json:"top_k"`
	MinRelevance float64      `json:"min_relevance"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type statsResponse struct {
	TotalMemories      int       `json:"total_memories"`
	TotalConversations int       `json:"total_conversations"`
	EarliestTS         time.Time `json:"earliest_ts"`
	LatestTS           time.Time `json:"latest_ts"`
	VectorDimension    int       `json:"vector_dimension"`
	ActiveIndexType    string    `json:"active_index_type"`
}

func toStatsResponse(s recall.Stats) statsResponse {
	return statsResponse{
		TotalMemories:      s.TotalMemories,
		TotalConversations: s.TotalConversations,
		EarliestTS:         s.EarliestTS,
		LatestTS:           s.LatestTS,
		VectorDimension:    s.VectorDimension,
		ActiveIndexType:    s.ActiveIndexType,
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	SnapshotReady bool    `json:"snapshot_ready"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}
