package chat

import (
	"strings"
	"unicode"
)

const (
	// FallbackTitle is used when a session has no user message to derive
	// a title from.
	FallbackTitle = "New Conversation"

	maxTitleLen = 40
	truncateAt  = 37
	minWordCut  = 20
	ellipsis    = "..."
)

// Title derives a display title from the first user message of a session:
// whitespace collapsed, truncated at a word boundary past 40 runes, first
// rune capitalized. Deterministic for identical input.
func Title(messages []Message) string {
	var text string
	for _, m := range messages {
		if m.Role == RoleUser {
			text = m.Text
			break
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return FallbackTitle
	}

	runes := []rune(text)
	if len(runes) > maxTitleLen {
		cut := lastSpaceBefore(runes, truncateAt)
		if cut > minWordCut {
			runes = runes[:cut]
		} else {
			runes = runes[:truncateAt]
		}
		text = string(runes) + ellipsis
		runes = []rune(text)
	}

	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// lastSpaceBefore returns the index of the last space at or before pos,
// or -1 if there is none.
func lastSpaceBefore(runes []rune, pos int) int {
	for i := pos; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
