// Package session implements deterministic slicing of a linear,
// timestamped message stream into overlapping coherent fragments
// ("sessions"), the unit of indexing for the rest of the engine.
package session

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// MessageKind enumerates the message content types the ingestion
// collaborator may hand us. Only Text is retained downstream.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindOther MessageKind = "other"
)

// Message is an immutable record of one chat message.
type Message struct {
	SenderID    string
	DisplayName string
	Timestamp   time.Time // UTC, second precision
	Content     string
	Kind        MessageKind
}

// ConversationKind is the kind of conversation a session belongs to.
type ConversationKind string

const (
	ConversationPrivate ConversationKind = "private"
	ConversationGroup   ConversationKind = "group"
)

// Kind tags whether a session is a primary disjoint slice or a
// boundary-spanning bridge built from the previous/next main session.
type Kind string

const (
	KindMain    Kind = "main"
	KindOverlap Kind = "overlap"
)

// ID is a 16-byte stable hash identifying a session, derived from its
// type and time range so rebuilding from the same inputs is idempotent.
type ID [16]byte

// NewID computes the session id for a session of the given kind spanning
// [firstTS, lastTS].
func NewID(kind Kind, firstTS, lastTS time.Time) ID {
	seed := fmt.Sprintf("%s|%d|%d", kind, firstTS.Unix(), lastTS.Unix())
	return ID(md5.Sum([]byte(seed)))
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Session is a coherent fragment of a single conversation, the basic
// indexing unit.
type Session struct {
	SessionID        ID
	ConversationName string
	ConversationKind ConversationKind
	Participants     []string // deduplicated, deterministically ordered
	StartTS          time.Time
	EndTS            time.Time
	Messages         []Message
	SessionKind      Kind

	ContentText string
	ContextText string

	ContentVector []float32
	ContextVector []float32

	Tokens []string // cached lexical tokens over ContentText
}
