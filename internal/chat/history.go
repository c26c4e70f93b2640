package chat

import "sort"

// History is the grouped projection of flat conversation records: per-session
// ordered message lists plus the session list, most recent session first.
type History struct {
	Sessions map[string][]Message
	List     []SessionMeta
}

// GroupRecords transforms flat remote records into a History. Each record
// yields up to two messages sharing the record timestamp, user before
// assistant. Messages are sorted oldest first within a session; the session
// list is sorted newest first. Empty input yields an empty History.
func GroupRecords(records []ConversationRecord) History {
	sessions := make(map[string][]Message)
	var list []SessionMeta

	for _, rec := range records {
		if _, ok := sessions[rec.SessionID]; !ok {
			sessions[rec.SessionID] = nil
			list = append(list, SessionMeta{
				ID:           rec.SessionID,
				CreatedAt:    rec.CreatedAt,
				FunctionName: rec.FunctionName,
			})
		}
		if rec.UserText != "" {
			msg := NewMessage(RoleUser, rec.UserText)
			msg.CreatedAt = rec.CreatedAt
			sessions[rec.SessionID] = append(sessions[rec.SessionID], msg)
		}
		if rec.ResponseText != "" {
			msg := NewMessage(RoleAssistant, rec.ResponseText)
			msg.CreatedAt = rec.CreatedAt
			sessions[rec.SessionID] = append(sessions[rec.SessionID], msg)
		}
	}

	// Stable sort keeps user before assistant at equal timestamps.
	for id, msgs := range sessions {
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		})
		sessions[id] = msgs
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	for i := range list {
		list[i].Title = Title(sessions[list[i].ID])
	}

	return History{Sessions: sessions, List: list}
}
