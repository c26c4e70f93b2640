// Package store holds the canonical in-memory projection of an account's
// conversations and every operation that mutates it. All mutation happens
// under one lock, so each operation is atomic from the caller's perspective;
// slow remote calls run outside the lock and apply their effect to the
// session they were issued for, never to whichever session is current when
// they settle.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fdchat/internal/chat"
)

type Status string

const (
	StatusReady          Status = "Ready"
	StatusLoadingHistory Status = "Loading history..."
	StatusLoadingSession Status = "Loading messages..."
	StatusSending        Status = "Sending message..."
	StatusApproving      Status = "Sending confirmation..."
	StatusNewSession     Status = "New conversation created"

	statusHistoryError  Status = "Error loading history"
	statusSessionError  Status = "Error loading messages"
	statusSendError     Status = "Error sending message"
	statusApproveError  Status = "Error sending confirmation"
	statusMissingInput  Status = "Please enter a function name and a message"
)

const (
	welcomeText = "Hi %s! I am an AI assistant helping you create Functional Design Documents. Describe your feature and I will start the design."

	persistTimeout = 30 * time.Second
)

// ConversationSource is the remote conversation log.
type ConversationSource interface {
	FetchHistory(ctx context.Context, accountID, sessionID string) ([]chat.ConversationRecord, error)
	UpdateFunctionName(ctx context.Context, accountID, sessionID, name string) error
}

// Store owns the in-memory conversation state for one account.
type Store struct {
	mu sync.Mutex

	accountID string
	remote    ConversationSource
	gateway   Gateway

	sessions map[string][]chat.Message
	list     []chat.SessionMeta
	current  string
	status   Status
	inflight map[string]bool
}

func New(accountID string, remote ConversationSource, gateway Gateway) *Store {
	return &Store{
		accountID: accountID,
		remote:    remote,
		gateway:   gateway,
		sessions:  make(map[string][]chat.Message),
		inflight:  make(map[string]bool),
		status:    StatusReady,
	}
}

// Status returns the current UI status label.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentSession returns the id of the active session.
func (s *Store) CurrentSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SessionList returns a copy of the session metadata list, newest first.
func (s *Store) SessionList() []chat.SessionMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]chat.SessionMeta, len(s.list))
	copy(list, s.list)
	return list
}

// Messages returns a copy of one session's ordered message list.
func (s *Store) Messages(sessionID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]chat.Message, len(s.sessions[sessionID]))
	copy(msgs, s.sessions[sessionID])
	return msgs
}

// FunctionName returns the function name bound to a session, or "".
func (s *Store) FunctionName(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.functionNameLocked(sessionID)
}

// LoadHistory replaces the in-memory projection with the account's remote
// history and selects the most recent session. On failure the error status is
// reported but a fresh session is still synthesized, so there is always an
// active session. The transport error is returned to the caller.
func (s *Store) LoadHistory(ctx context.Context) error {
	s.setStatus(StatusLoadingHistory)

	records, err := s.remote.FetchHistory(ctx, s.accountID, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		slog.Error("Failed to load account history", "account_id", s.accountID, "error", err)
		s.newSessionLocked()
		s.status = statusHistoryError
		return err
	}

	history := chat.GroupRecords(records)
	s.sessions = history.Sessions
	s.list = history.List
	if len(s.list) == 0 {
		s.newSessionLocked()
		s.status = StatusReady
		return nil
	}

	s.current = s.list[0].ID
	s.status = Status(fmt.Sprintf("Loaded %d conversations", len(s.list)))
	return nil
}

// NewSession creates a fresh session with a welcome message and makes it
// current. Never fails.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newSessionLocked()
	s.status = StatusNewSession
	return id
}

// SwitchSession makes a session current immediately. Messages already in
// memory are kept as is; otherwise they are fetched and installed for that
// session. Switching never cancels a send in flight for another session.
func (s *Store) SwitchSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	s.current = sessionID
	if msgs, ok := s.sessions[sessionID]; ok && len(msgs) > 0 {
		s.status = StatusReady
		s.mu.Unlock()
		return nil
	}
	s.status = StatusLoadingSession
	s.mu.Unlock()

	records, err := s.remote.FetchHistory(ctx, s.accountID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		slog.Error("Failed to load session messages", "session_id", sessionID, "error", err)
		s.status = statusSessionError
		return err
	}

	history := chat.GroupRecords(records)
	s.sessions[sessionID] = history.Sessions[sessionID]
	s.status = StatusReady
	return nil
}

// SetFunctionName binds a function name to the current session. The binding
// is write-once: a session that already has one keeps it, and an empty name
// is ignored. The remote persistence runs asynchronously; its failure is
// logged and the local binding stands.
func (s *Store) SetFunctionName(name string) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	sessionID := s.current
	if name == "" || sessionID == "" || s.functionNameLocked(sessionID) != "" {
		s.mu.Unlock()
		return
	}
	for i := range s.list {
		if s.list[i].ID == sessionID {
			s.list[i].FunctionName = name
		}
	}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.remote.UpdateFunctionName(ctx, s.accountID, sessionID, name); err != nil {
			slog.Error("Failed to persist function name", "session_id", sessionID, "error", err)
		}
	}()
}

func (s *Store) functionNameLocked(sessionID string) string {
	for i := range s.list {
		if s.list[i].ID == sessionID {
			return s.list[i].FunctionName
		}
	}
	return ""
}

func (s *Store) newSessionLocked() string {
	id := chat.NewSessionID()
	welcome := chat.NewMessage(chat.RoleAssistant, fmt.Sprintf(welcomeText, s.accountID))
	s.sessions[id] = []chat.Message{welcome}
	s.list = append([]chat.SessionMeta{{
		ID:        id,
		Title:     chat.FallbackTitle,
		CreatedAt: time.Now(),
	}}, s.list...)
	s.current = id
	return id
}

func (s *Store) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
