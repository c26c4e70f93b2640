package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRecordsEmpty(t *testing.T) {
	history := GroupRecords(nil)

	assert.Empty(t, history.Sessions)
	assert.Empty(t, history.List)
}

func TestGroupRecordsPairsUserBeforeAssistant(t *testing.T) {
	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []ConversationRecord{
		{SessionID: "s1", UserText: "hello", ResponseText: "hi, how can I help?", CreatedAt: ts},
	}

	history := GroupRecords(records)

	msgs := history.Sessions["s1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, ts, msgs[0].CreatedAt)
	assert.Equal(t, ts, msgs[1].CreatedAt)
}

func TestGroupRecordsSkipsEmptyTexts(t *testing.T) {
	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []ConversationRecord{
		{SessionID: "s1", UserText: "", ResponseText: "welcome back", CreatedAt: ts},
		{SessionID: "s1", UserText: "thanks", ResponseText: "", CreatedAt: ts.Add(time.Minute)},
	}

	history := GroupRecords(records)

	msgs := history.Sessions["s1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
}

func TestGroupRecordsOrdering(t *testing.T) {
	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	// Records arrive newest first, the way the remote store returns them.
	records := []ConversationRecord{
		{SessionID: "s2", UserText: "newer session", ResponseText: "ok", CreatedAt: base.Add(2 * time.Hour), FunctionName: "designDoc"},
		{SessionID: "s1", UserText: "second question", ResponseText: "second answer", CreatedAt: base.Add(time.Hour)},
		{SessionID: "s1", UserText: "first question", ResponseText: "first answer", CreatedAt: base},
	}

	history := GroupRecords(records)

	require.Len(t, history.List, 2)
	assert.Equal(t, "s2", history.List[0].ID)
	assert.Equal(t, "s1", history.List[1].ID)
	assert.True(t, !history.List[0].CreatedAt.Before(history.List[1].CreatedAt))
	assert.Equal(t, "designDoc", history.List[0].FunctionName)

	msgs := history.Sessions["s1"]
	require.Len(t, msgs, 4)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
	}
	assert.Equal(t, "first question", msgs[0].Text)
	assert.Equal(t, "first answer", msgs[1].Text)
	assert.Equal(t, "second question", msgs[2].Text)
	assert.Equal(t, "second answer", msgs[3].Text)
}

func TestGroupRecordsTitles(t *testing.T) {
	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []ConversationRecord{
		{SessionID: "s1", UserText: "build a login flow", ResponseText: "sure", CreatedAt: ts},
		{SessionID: "s2", UserText: "", ResponseText: "welcome", CreatedAt: ts.Add(time.Minute)},
	}

	history := GroupRecords(records)

	byID := map[string]SessionMeta{}
	for _, meta := range history.List {
		byID[meta.ID] = meta
	}
	assert.Equal(t, "Build a login flow", byID["s1"].Title)
	assert.Equal(t, FallbackTitle, byID["s2"].Title)
}

func TestGroupRecordsMessageIDsAreUnique(t *testing.T) {
	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []ConversationRecord{
		{SessionID: "s1", UserText: "a", ResponseText: "b", CreatedAt: ts},
		{SessionID: "s1", UserText: "c", ResponseText: "d", CreatedAt: ts.Add(time.Second)},
	}

	history := GroupRecords(records)

	seen := map[string]bool{}
	for _, msg := range history.Sessions["s1"] {
		require.NotEmpty(t, msg.ID)
		assert.False(t, seen[msg.ID])
		seen[msg.ID] = true
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	assert.True(t, len(id) > len("sess_"))
	assert.Contains(t, id, "sess_")
	assert.NotEqual(t, id, NewSessionID())
}
