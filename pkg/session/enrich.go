package session

import (
	"fmt"
	"strings"

	"github.com/mixuechu/wememory/pkg/tokenize"
)

const contentLineMaxRunes = 200

// Enrich fills in s.ContentText, s.ContextText, and s.Tokens from
// s.Messages. It is idempotent and safe to call again after mutating
// Messages.
func Enrich(s *Session) {
	s.ContentText = formatContent(s.Messages)
	s.ContextText = formatContext(s)
	s.Tokens = tokenize.Tokenize(s.ContentText)
}

// formatContent renders one "name: content" line per message, truncating
// long message bodies so a single message can't dominate the session's
// lexical/embedding signal.
func formatContent(msgs []Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		name := cleanDisplayName(m.DisplayName)
		lines = append(lines, fmt.Sprintf("%s: %s", name, truncate(m.Content, contentLineMaxRunes)))
	}
	return strings.Join(lines, "\n")
}

// cleanDisplayName drops a parenthesized suffix (e.g. a nickname or role
// annotation appended in half-width or full-width parens) from a display
// name, keeping only the leading identity.
func cleanDisplayName(name string) string {
	cut := strings.IndexAny(name, "(（")
	if cut < 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name[:cut])
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// formatContext renders the session's date/time-of-day/participants
// metadata line, used as the lower-weighted "context" half of the dual
// embedding.
func formatContext(s *Session) string {
	local := s.StartTS.Local()
	return fmt.Sprintf("%d年%d月%d日%s 参与者: %s",
		local.Year(), int(local.Month()), local.Day(),
		dayPeriod(local.Hour()), strings.Join(s.Participants, ", "))
}

// dayPeriod buckets an hour-of-day (0-23, local time) into one of three
// Chinese time-of-day labels.
func dayPeriod(hour int) string {
	switch {
	case hour <= 11:
		return "上午"
	case hour <= 17:
		return "下午"
	default:
		return "晚上"
	}
}
