package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. ID is assigned at insertion time and
// never changes; a pending assistant placeholder carries Loading until it is
// replaced by its final text.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
	Loading   bool
}

// NewMessage creates a finalized Message with a fresh id
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewLoadingMessage creates the assistant placeholder shown while a webhook
// call is in flight
func NewLoadingMessage() Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
		Loading:   true,
	}
}

// SessionMeta describes one conversation thread in the session list.
// FunctionName is bound at most once per session.
type SessionMeta struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	FunctionName string
}

// ConversationRecord is one row of the remote conversations table. A single
// row pairs a user request with its assistant response under one timestamp.
type ConversationRecord struct {
	AccountID    string    `json:"account_id"`
	SessionID    string    `json:"session_id"`
	UserText     string    `json:"user_text"`
	ResponseText string    `json:"response_text"`
	FunctionName string    `json:"function_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSessionID generates a session identifier in the wire format the webhook
// expects: a base36 millisecond prefix plus a short random suffix.
func NewSessionID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("sess_%s_%s", ts, suffix)
}
