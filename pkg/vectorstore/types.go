// Package vectorstore owns the dual-vector array and parallel session
// metadata that the hybrid index is built over, plus durable snapshot I/O.
package vectorstore

import (
	"time"

	"github.com/mixuechu/wememory/pkg/session"
)

// Meta is everything about a session the index needs for filtering and
// result rendering, excluding its message list — the store keeps this
// parallel to the vector arrays rather than the sessions themselves.
type Meta struct {
	SessionID        session.ID
	ConversationName string
	ConversationKind session.ConversationKind
	Participants     []string
	StartTS          time.Time
	EndTS            time.Time
	SessionKind      session.Kind
	ContentText      string
	ContextText      string
}

// MetaOf projects the fields of s that the store retains.
func MetaOf(s session.Session) Meta {
	return Meta{
		SessionID:        s.SessionID,
		ConversationName: s.ConversationName,
		ConversationKind: s.ConversationKind,
		Participants:     s.Participants,
		StartTS:          s.StartTS,
		EndTS:            s.EndTS,
		SessionKind:      s.SessionKind,
		ContentText:      s.ContentText,
		ContextText:      s.ContextText,
	}
}
