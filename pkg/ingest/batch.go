package ingest

import "github.com/mixuechu/wememory/pkg/session"

// DefaultTokenBudget is the per-request token ceiling batches are planned
// against, carried over from the original build pipeline's dynamic
// batching pass.
const DefaultTokenBudget = 19000

// EstimateTokens approximates a text's token count without running the
// real tokenizer: roughly one token per two runes, which undercounts
// CJK-heavy text (where the lexical tokenizer emits close to one token
// per character) and is cheap enough to run over an entire corpus
// during batch planning.
func EstimateTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 1) / 2
}

// PlanBatches groups sessions into batches whose estimated total token
// count stays at or under budget, so a single oversized session can't
// silently blow the embedding provider's per-request limit. A session
// whose own estimate already exceeds budget gets its own singleton
// batch rather than being dropped.
func PlanBatches(sessions []session.Session, budget int) [][]session.Session {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	var batches [][]session.Session
	var current []session.Session
	currentTokens := 0

	for _, s := range sessions {
		cost := EstimateTokens(s.ContentText) + EstimateTokens(s.ContextText)
		if len(current) > 0 && currentTokens+cost > budget {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, s)
		currentTokens += cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
