package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fdchat/internal/chat"
	"fdchat/internal/gateway"
)

// Gateway is the inference webhook used to settle a send or approve.
type Gateway interface {
	Send(ctx context.Context, request gateway.Request) (json.RawMessage, error)
}

// Send dispatches one user message to the webhook for the current session.
// The user message and an assistant loading placeholder are inserted before
// the call; on settlement the placeholder is replaced by id with the
// normalized response or an error message. The user message is never rolled
// back. A send is rejected while another one is in flight for the same
// session, and rejected before any mutation when functionName or text is
// empty.
func (s *Store) Send(ctx context.Context, functionName, text string) error {
	functionName = strings.TrimSpace(functionName)
	text = strings.TrimSpace(text)
	if functionName == "" || text == "" {
		s.setStatus(statusMissingInput)
		return chat.ErrValidation
	}

	s.mu.Lock()
	sessionID := s.current
	if sessionID == "" {
		s.mu.Unlock()
		s.setStatus(statusMissingInput)
		return chat.ErrValidation
	}
	if s.inflight[sessionID] {
		s.mu.Unlock()
		return fmt.Errorf("session %s: %w", sessionID, chat.ErrBusy)
	}
	s.inflight[sessionID] = true
	userMsg := chat.NewMessage(chat.RoleUser, text)
	placeholder := chat.NewLoadingMessage()
	s.sessions[sessionID] = append(s.sessions[sessionID], userMsg, placeholder)
	s.status = StatusSending
	s.mu.Unlock()

	raw, err := s.gateway.Send(ctx, gateway.Request{
		AccountID:    s.accountID,
		SessionID:    sessionID,
		FunctionName: functionName,
		Text:         text,
		FinalResult:  false,
	})
	s.settle(sessionID, placeholder.ID, raw, err, statusSendError)
	return err
}

// Approve requests the terminal deliverable for the current session. It
// follows the same placeholder protocol as Send but records no user message
// and sends empty text with finalResult set.
func (s *Store) Approve(ctx context.Context, functionName string) error {
	s.mu.Lock()
	sessionID := s.current
	if sessionID == "" {
		s.mu.Unlock()
		s.setStatus(statusMissingInput)
		return chat.ErrValidation
	}
	if s.inflight[sessionID] {
		s.mu.Unlock()
		return fmt.Errorf("session %s: %w", sessionID, chat.ErrBusy)
	}
	s.inflight[sessionID] = true
	placeholder := chat.NewLoadingMessage()
	s.sessions[sessionID] = append(s.sessions[sessionID], placeholder)
	s.status = StatusApproving
	s.mu.Unlock()

	raw, err := s.gateway.Send(ctx, gateway.Request{
		AccountID:    s.accountID,
		SessionID:    sessionID,
		FunctionName: strings.TrimSpace(functionName),
		Text:         "",
		FinalResult:  true,
	})
	s.settle(sessionID, placeholder.ID, raw, err, statusApproveError)
	return err
}

// settle applies the outcome of a webhook call to the session it was issued
// for. The placeholder is looked up by id, so mutations that happened while
// the call was in flight (including a session switch) cannot misdirect the
// replacement.
func (s *Store) settle(sessionID, placeholderID string, raw json.RawMessage, err error, errStatus Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)

	if err != nil {
		s.replaceMessageLocked(sessionID, placeholderID, chat.NewMessage(chat.RoleAssistant, errorText(err)))
		s.status = errStatus
		return
	}

	reply := chat.NewMessage(chat.RoleAssistant, gateway.Normalize(raw))
	s.replaceMessageLocked(sessionID, placeholderID, reply)
	s.status = StatusReady

	// First exchange settled: derive the title from the conversation.
	if countRoleLocked(s.sessions[sessionID], chat.RoleUser) <= 1 {
		s.retitleLocked(sessionID)
	}
}

func (s *Store) replaceMessageLocked(sessionID, messageID string, replacement chat.Message) {
	msgs := s.sessions[sessionID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			msgs[i] = replacement
			return
		}
	}
	// The placeholder is the only message ever mutated in place; if it is
	// gone something removed it out of band. Keep the reply anyway.
	slog.Error("Loading placeholder not found", "session_id", sessionID, "message_id", messageID)
	s.sessions[sessionID] = append(msgs, replacement)
}

func (s *Store) retitleLocked(sessionID string) {
	title := chat.Title(s.sessions[sessionID])
	for i := range s.list {
		if s.list[i].ID == sessionID {
			s.list[i].Title = title
		}
	}
}

func countRoleLocked(msgs []chat.Message, role chat.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

func errorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrTimeout):
		return "The request timed out. The service may still be working on it; please try again in a moment."
	case errors.Is(err, chat.ErrTransport):
		return "Network connection error. Please check your connection and try again."
	default:
		return fmt.Sprintf("Error sending message: %v", err)
	}
}
