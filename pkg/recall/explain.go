package recall

import "fmt"

// ExplainConfig holds the heuristic thresholds used to build a result's
// explanation string — tunables, per spec, not compiled-in constants.
type ExplainConfig struct {
	BM25Threshold   float64
	CosineThreshold float64
}

// DefaultExplainConfig matches the values the explanation step has
// always shipped with.
func DefaultExplainConfig() ExplainConfig {
	return ExplainConfig{BM25Threshold: 0.5, CosineThreshold: 0.7}
}

// explain assembles a human-readable reason string for one survivor:
// keyword/semantic match clauses (independent of strategy), a
// strategy-derived clause, and a trailing relevance figure.
func explain(cfg ExplainConfig, strategy Strategy, bm25n, cosContent, relevance float64) string {
	var clauses []string
	if bm25n > cfg.BM25Threshold {
		clauses = append(clauses, "keyword match")
	}
	if cosContent > cfg.CosineThreshold {
		clauses = append(clauses, "semantic similarity")
	}
	clauses = append(clauses, strategyClause(strategy))

	reason := clauses[0]
	for _, c := range clauses[1:] {
		reason += ", " + c
	}
	return fmt.Sprintf("%s (relevance: %.2f)", reason, relevance)
}

func strategyClause(s Strategy) string {
	switch s {
	case StrategyPeople:
		return "matches participants"
	case StrategyTemporal:
		return "matches time period"
	default:
		return "semantic relevance"
	}
}
