package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mixuechu/wememory/pkg/embeddings"
	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/tokenize"
	"github.com/mixuechu/wememory/pkg/vectorstore"
)

// Config holds Service-level tunables.
type Config struct {
	CacheTTL time.Duration
	Explain  ExplainConfig
}

// DefaultConfig matches the spec's 1-hour cache TTL and the explanation
// thresholds' documented defaults.
func DefaultConfig() Config {
	return Config{CacheTTL: time.Hour, Explain: DefaultExplainConfig()}
}

// DefaultRequest returns a Request with the spec's documented defaults
// (recall_kind=auto, top_k=5, min_relevance=0.3) for context.
func DefaultRequest(context string) Request {
	return Request{Context: context, Kind: StrategyAuto, TopK: 5, MinRelevance: 0.3}
}

// Service is the Recall Service: it is built once per process and
// injected into request handlers and CLI subcommands rather than reached
// through a package-level singleton.
type Service struct {
	store    *vectorstore.Store
	index    *hybridindex.Index
	embedder embeddings.Embedder
	cache    *cache
	cfg      Config
}

// NewService wires a Service over an already-loaded store/index and an
// embedding provider.
func NewService(store *vectorstore.Store, index *hybridindex.Index, embedder embeddings.Embedder, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Service{
		store:    store,
		index:    index,
		embedder: embedder,
		cache:    newCache(cfg.CacheTTL),
		cfg:      cfg,
	}
}

// Recall is the full pipeline: cache probe, strategy resolution, embed,
// filter, fused search, relevance cutoff, explanation, association
// aggregation, and cache population.
func (s *Service) Recall(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	if err := validateRequest(req); err != nil {
		return Response{}, err
	}

	key := cacheKey(req.Context, req.Kind, req.TopK)
	if cached, ok := s.cache.get(key); ok {
		cached.RequestID = uuid.NewString()
		cached.ProcessingTimeMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	strategy := req.Kind
	if strategy == StrategyAuto {
		strategy = classify(req.Context)
	}

	qContentRaw, err := s.embedder.EmbedText(ctx, req.Context)
	if err != nil {
		return Response{}, &ProviderError{Cause: err}
	}
	qContent := embeddings.Normalize(qContentRaw)
	queryTokens := tokenize.Tokenize(req.Context)

	filter := hybridindex.Filter{}
	if req.TimeRange != nil {
		filter.TimeRange = req.TimeRange
	}

	results, err := s.index.Search(qContent, nil, queryTokens, filter, 2*req.TopK)
	if err != nil {
		return Response{}, err
	}

	memories := make([]Memory, 0, req.TopK)
	for _, r := range results {
		if r.Hybrid < req.MinRelevance {
			continue
		}
		memories = append(memories, s.toMemory(r, strategy))
		if len(memories) == req.TopK {
			break
		}
	}

	resp := Response{
		RequestID:        uuid.NewString(),
		Memories:         memories,
		Strategy:         strategy,
		Associations:     aggregateAssociations(memories),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CachedAt:         time.Now(),
	}
	s.cache.put(key, resp)
	return resp, nil
}

func (s *Service) toMemory(r hybridindex.Result, strategy Strategy) Memory {
	reason := explain(s.cfg.Explain, strategy, r.BM25Norm, r.CosContent, r.Hybrid)
	return Memory{
		SessionID:        r.Meta.SessionID,
		ConversationName: r.Meta.ConversationName,
		Participants:     r.Meta.Participants,
		StartTS:          r.Meta.StartTS,
		EndTS:            r.Meta.EndTS,
		ContentText:      r.Meta.ContentText,
		Relevance:        r.Hybrid,
		BM25Norm:         r.BM25Norm,
		CosContent:       r.CosContent,
		CosContext:       r.CosContext,
		Explanation:      reason,
	}
}

func validateRequest(req Request) error {
	if req.Context == "" {
		return ErrEmptyContext
	}
	if req.TopK < 1 || req.TopK > 20 {
		return ErrTopKOutOfRange
	}
	if req.MinRelevance < 0 || req.MinRelevance > 1 {
		return ErrRelevanceBounds
	}
	switch req.Kind {
	case StrategyAuto, StrategySemantic, StrategyTemporal, StrategyPeople:
	default:
		return ErrUnknownStrategy
	}
	return nil
}

// RecallByTopic composes a synthetic context around a conversation name.
func (s *Service) RecallByTopic(ctx context.Context, topic string, topK int, minRelevance float64) (Response, error) {
	req := Request{
		Context:      fmt.Sprintf("conversations about %s", topic),
		Kind:         StrategySemantic,
		TopK:         topK,
		MinRelevance: minRelevance,
	}
	return s.Recall(ctx, req)
}

// RecallByPeople composes a synthetic context around a participant. When
// includeMentions is false, survivors whose participants don't contain
// person are post-filtered out after scoring.
func (s *Service) RecallByPeople(ctx context.Context, person string, includeMentions bool, topK int, minRelevance float64) (Response, error) {
	req := Request{
		Context:      fmt.Sprintf("conversations with %s", person),
		Kind:         StrategyPeople,
		TopK:         topK,
		MinRelevance: minRelevance,
	}
	resp, err := s.Recall(ctx, req)
	if err != nil || includeMentions {
		return resp, err
	}

	filtered := make([]Memory, 0, len(resp.Memories))
	for _, m := range resp.Memories {
		if containsString(m.Participants, person) {
			filtered = append(filtered, m)
		}
	}
	resp.Memories = filtered
	return resp, nil
}

// RecallByTime composes a synthetic context around a fixed time range.
func (s *Service) RecallByTime(ctx context.Context, timeRange hybridindex.TimeRange, topK int, minRelevance float64) (Response, error) {
	req := Request{
		Context:      "conversations during this period",
		Kind:         StrategyTemporal,
		TopK:         topK,
		MinRelevance: minRelevance,
		TimeRange:    &timeRange,
	}
	return s.Recall(ctx, req)
}

// Search is simple_search: it bypasses the cache, strategy
// classification, and the relevance cutoff, returning bare matches with
// a fixed explanation.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Memory, error) {
	if topK < 1 {
		topK = 5
	}
	qRaw, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, &ProviderError{Cause: err}
	}
	qContent := embeddings.Normalize(qRaw)
	tokens := tokenize.Tokenize(query)

	results, err := s.index.Search(qContent, nil, tokens, hybridindex.Filter{}, topK)
	if err != nil {
		return nil, err
	}

	memories := make([]Memory, len(results))
	for i, r := range results {
		m := s.toMemory(r, StrategySemantic)
		m.Explanation = fmt.Sprintf("keyword match (relevance: %.2f)", r.Hybrid)
		memories[i] = m
	}
	return memories, nil
}

// Stats reports aggregate corpus statistics.
func (s *Service) Stats() Stats {
	n := s.store.Len()
	conversations := map[string]struct{}{}
	var earliest, latest time.Time

	for i := 0; i < n; i++ {
		meta, err := s.store.Meta(i)
		if err != nil {
			continue
		}
		conversations[meta.ConversationName] = struct{}{}
		if earliest.IsZero() || meta.StartTS.Before(earliest) {
			earliest = meta.StartTS
		}
		if latest.IsZero() || meta.EndTS.After(latest) {
			latest = meta.EndTS
		}
	}

	indexType := "linear"
	if s.index.VectorState() == hybridindex.Built {
		indexType = "ann"
	}

	return Stats{
		TotalMemories:      n,
		TotalConversations: len(conversations),
		EarliestTS:         earliest,
		LatestTS:           latest,
		VectorDimension:    s.store.Dimension(),
		ActiveIndexType:    indexType,
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
