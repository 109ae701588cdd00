package session

import (
	"sort"
	"strings"
	"time"
)

// BuilderConfig controls how a raw message stream is sliced into sessions.
type BuilderConfig struct {
	TimeGap       time.Duration // max gap inside a batch before a split is considered
	MinMessages   int           // batches smaller than this are never emitted
	MaxMessages   int           // batches are force-split once they reach this size
	OverlapWindow int           // messages taken from each side of a boundary overlap
	OverlapMaxGap time.Duration // max gap between two main sessions to still bridge them
}

// DefaultBuilderConfig matches the defaults carried over from the original
// session-segmentation pass.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		TimeGap:       30 * time.Minute,
		MinMessages:   3,
		MaxMessages:   20,
		OverlapWindow: 5,
		OverlapMaxGap: 2 * time.Hour,
	}
}

// ConversationMeta is the conversation-level context a Builder needs but
// that isn't carried on individual messages.
type ConversationMeta struct {
	Name string
	Kind ConversationKind
}

// Builder slices a message stream into sessions in three phases: strict
// batching, main-session emission, and boundary-overlap emission.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder constructs a Builder. A zero-value cfg field falls back to
// the matching DefaultBuilderConfig() value.
func NewBuilder(cfg BuilderConfig) *Builder {
	def := DefaultBuilderConfig()
	if cfg.TimeGap <= 0 {
		cfg.TimeGap = def.TimeGap
	}
	if cfg.MinMessages <= 0 {
		cfg.MinMessages = def.MinMessages
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = def.MaxMessages
	}
	if cfg.OverlapWindow <= 0 {
		cfg.OverlapWindow = def.OverlapWindow
	}
	if cfg.OverlapMaxGap <= 0 {
		cfg.OverlapMaxGap = def.OverlapMaxGap
	}
	return &Builder{cfg: cfg}
}

// Build runs the three-phase split and returns main sessions followed by
// boundary-overlap sessions, each fully enriched.
func (b *Builder) Build(messages []Message, meta ConversationMeta) []Session {
	batches := b.batch(messages)

	sessions := make([]Session, 0, len(batches)+len(batches))
	for _, batch := range batches {
		sessions = append(sessions, b.buildSession(batch, meta, KindMain))
	}
	for i := 0; i+1 < len(batches); i++ {
		if overlap, ok := b.buildOverlap(batches[i], batches[i+1], meta); ok {
			sessions = append(sessions, overlap)
		}
	}
	return sessions
}

// batch is phase 1: walk the stream in order, dropping non-text and
// blank messages, and split on a time gap or on reaching MaxMessages. A
// split that would leave fewer than MinMessages accumulated is skipped:
// the under-sized run keeps absorbing messages (even across the gap that
// triggered the check) until it either reaches MinMessages or the stream
// ends, in which case it is discarded.
func (b *Builder) batch(messages []Message) [][]Message {
	var batches [][]Message
	var current []Message

	for _, msg := range messages {
		if msg.Kind != KindText {
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}

		shouldSplit := false
		if len(current) > 0 {
			gap := msg.Timestamp.Sub(current[len(current)-1].Timestamp)
			if gap > b.cfg.TimeGap || len(current) >= b.cfg.MaxMessages {
				shouldSplit = true
			}
		}
		if shouldSplit && len(current) >= b.cfg.MinMessages {
			batches = append(batches, current)
			current = nil
		}
		current = append(current, msg)
	}
	if len(current) >= b.cfg.MinMessages {
		batches = append(batches, current)
	}
	return batches
}

func (b *Builder) buildSession(msgs []Message, meta ConversationMeta, kind Kind) Session {
	first, last := msgs[0].Timestamp, msgs[len(msgs)-1].Timestamp
	s := Session{
		SessionID:        NewID(kind, first, last),
		ConversationName: meta.Name,
		ConversationKind: meta.Kind,
		Participants:     participantsOf(msgs),
		StartTS:          first,
		EndTS:            last,
		Messages:         msgs,
		SessionKind:      kind,
	}
	Enrich(&s)
	return s
}

// buildOverlap builds a bridging session over a consecutive pair of main
// batches, using the last OverlapWindow messages of prev and the first
// OverlapWindow messages of next. It is skipped if the inter-batch gap
// exceeds OverlapMaxGap or if the combined message count falls below
// MinMessages.
func (b *Builder) buildOverlap(prev, next []Message, meta ConversationMeta) (Session, bool) {
	gap := next[0].Timestamp.Sub(prev[len(prev)-1].Timestamp)
	if gap > b.cfg.OverlapMaxGap {
		return Session{}, false
	}

	tail := lastN(prev, b.cfg.OverlapWindow)
	head := firstN(next, b.cfg.OverlapWindow)

	combined := make([]Message, 0, len(tail)+len(head))
	combined = append(combined, tail...)
	combined = append(combined, head...)
	if len(combined) < b.cfg.MinMessages {
		return Session{}, false
	}

	return b.buildSession(combined, meta, KindOverlap), true
}

func lastN(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func firstN(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[:n]
}

// participantsOf returns the deduplicated set of display names in msgs,
// sorted for deterministic output.
func participantsOf(msgs []Message) []string {
	seen := make(map[string]struct{}, len(msgs))
	var out []string
	for _, m := range msgs {
		if _, ok := seen[m.DisplayName]; ok {
			continue
		}
		seen[m.DisplayName] = struct{}{}
		out = append(out, m.DisplayName)
	}
	sort.Strings(out)
	return out
}
