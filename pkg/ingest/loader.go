package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mixuechu/wememory/pkg/session"
)

// Loader is the chat-log ingest contract: load(path) -> (messages, meta).
type Loader interface {
	Load(path string) ([]session.Message, session.ConversationMeta, error)
}

// rawLog is the on-disk shape a JSONLoader reads: one JSON object per
// conversation holding its metadata and ordered messages.
type rawLog struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Messages []rawMessage `json:"messages"`
}

type rawMessage struct {
	SenderID    string `json:"sender_id"`
	DisplayName string `json:"display_name"`
	Timestamp   int64  `json:"timestamp"`
	Content     string `json:"content"`
	Kind        string `json:"kind"`
}

// JSONLoader reads a conversation export encoded as a single JSON object.
type JSONLoader struct{}

// Load implements Loader by decoding path as a rawLog and converting its
// messages to session.Message.
func (JSONLoader) Load(path string) ([]session.Message, session.ConversationMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, session.ConversationMeta{}, fmt.Errorf("ingest: read %s: %w", path, err)
	}

	var raw rawLog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, session.ConversationMeta{}, fmt.Errorf("ingest: decode %s: %w", path, err)
	}

	msgs := make([]session.Message, len(raw.Messages))
	for i, m := range raw.Messages {
		msgs[i] = session.Message{
			SenderID:    m.SenderID,
			DisplayName: m.DisplayName,
			Timestamp:   time.Unix(m.Timestamp, 0).UTC(),
			Content:     m.Content,
			Kind:        session.MessageKind(m.Kind),
		}
	}

	kind := session.ConversationGroup
	if raw.Kind == string(session.ConversationPrivate) {
		kind = session.ConversationPrivate
	}

	return msgs, session.ConversationMeta{Name: raw.Name, Kind: kind}, nil
}
