package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"fdchat/internal/chat"
	"fdchat/internal/config"
)

const conversationsTable = "conversations"

// Client reads and patches the remote conversations table. The table is
// append/patch-only from this client's perspective and is not assumed to be
// strongly consistent right after a write.
type Client struct {
	client *supabase.Client
}

func New(cfg *config.Config) (*Client, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Client{client: client}, nil
}

// FetchHistory returns conversation records for an account ordered newest
// first, optionally filtered to one session. A non-2xx response surfaces as
// chat.ErrTransport; partial data is never returned as success.
func (c *Client) FetchHistory(ctx context.Context, accountID, sessionID string) ([]chat.ConversationRecord, error) {
	query := c.client.From(conversationsTable).
		Select("*", "", false).
		Eq("account_id", accountID)
	if sessionID != "" {
		query = query.Eq("session_id", sessionID)
	}

	var records []chat.ConversationRecord
	_, err := query.Order("created_at", &postgrest.OrderOpts{Ascending: false}).ExecuteTo(&records)
	if err != nil {
		slog.Error("Failed to fetch conversation history", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("fetch history: %w: %w", chat.ErrTransport, err)
	}

	slog.Debug("fetched conversation records",
		slog.String("account_id", accountID),
		slog.Int("count", len(records)),
	)
	return records, nil
}

// UpdateFunctionName patches the function_name column for every row of one
// session. Callers treat a failure here as non-fatal.
func (c *Client) UpdateFunctionName(ctx context.Context, accountID, sessionID, name string) error {
	patch := map[string]string{"function_name": name}
	_, _, err := c.client.From(conversationsTable).
		Update(patch, "minimal", "").
		Eq("account_id", accountID).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		slog.Error("Failed to update function name", "session_id", sessionID, "error", err)
		return fmt.Errorf("update function name: %w: %w", chat.ErrTransport, err)
	}

	slog.Debug("function name updated",
		slog.String("session_id", sessionID),
		slog.String("function_name", name),
	)
	return nil
}
