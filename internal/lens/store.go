package lens

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexziconAI/eco-dairy-bot/internal/db"
)

// ErrInvalidRole is returned when a turn's role is neither user nor bot.
var ErrInvalidRole = errors.New("role must be \"user\" or \"bot\"")

// Store manages persistence of conversations, turns and saved analyses.
type Store struct {
	db *db.DB
}

// NewStore creates a new conversation store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateConversation creates an empty conversation.
func (s *Store) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	now := time.Now().UTC()
	c := Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Turns:     []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return &c, nil
}

// GetConversation loads a conversation and all its turns in order. It
// returns nil when the conversation does not exist.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, text, created_at FROM turns WHERE conversation_id = ? ORDER BY seq ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	c.Turns = []Turn{}
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Role, &t.Text, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		c.Turns = append(c.Turns, t)
	}
	return &c, rows.Err()
}

// ListConversations returns conversations, most recently updated first,
// without their turns.
func (s *Store) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddTurn appends a turn to a conversation. A zero timestamp is set to the
// current time. A timestamp earlier than the last stored turn is rejected
// with ErrOutOfOrder.
func (s *Store) AddTurn(ctx context.Context, conversationID string, t Turn) (*Turn, error) {
	if t.Role != RoleUser && t.Role != RoleBot {
		return nil, ErrInvalidRole
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM turns WHERE conversation_id = ?`, conversationID,
	).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next turn sequence: %w", err)
	}

	var last time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM turns WHERE conversation_id = ? ORDER BY seq DESC LIMIT 1`, conversationID,
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("last turn time: %w", err)
	}
	if err == nil && t.Timestamp.Before(last) {
		return nil, fmt.Errorf("turn at %s precedes %s: %w",
			t.Timestamp.Format(time.RFC3339), last.Format(time.RFC3339), ErrOutOfOrder)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, conversation_id, seq, role, text, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, conversationID, seq, t.Role, t.Text, t.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("adding turn: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, time.Now().UTC(), conversationID,
	); err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing turn: %w", err)
	}
	return &t, nil
}

// SaveAnalysis stores a lens or result against a conversation.
func (s *Store) SaveAnalysis(ctx context.Context, conversationID, kind string, turnCount int, l *Lens, result any) (*SavedAnalysis, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	a := SavedAnalysis{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Kind:           kind,
		Orientation:    l.Metadata.Orientation,
		TurnCount:      turnCount,
		Result:         b,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, conversation_id, kind, orientation, turn_count, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ConversationID, a.Kind, a.Orientation, a.TurnCount, string(a.Result), a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return &a, nil
}

// ListAnalyses returns the analyses saved for a conversation, oldest first.
func (s *Store) ListAnalyses(ctx context.Context, conversationID string) ([]SavedAnalysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, kind, orientation, turn_count, result, created_at
		 FROM analyses WHERE conversation_id = ? ORDER BY created_at ASC, rowid ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []SavedAnalysis
	for rows.Next() {
		var a SavedAnalysis
		var result string
		if err := rows.Scan(&a.ID, &a.ConversationID, &a.Kind, &a.Orientation, &a.TurnCount, &result, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		a.Result = json.RawMessage(result)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountConversations returns the total number of conversations.
func (s *Store) CountConversations(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}
