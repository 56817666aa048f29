package lens

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndGetConversation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "Calving season")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if conv.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := store.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if got == nil {
		t.Fatal("expected conversation, got nil")
	}
	if got.Title != "Calving season" {
		t.Errorf("expected title 'Calving season', got %q", got.Title)
	}
	if got.Turns == nil || len(got.Turns) != 0 {
		t.Errorf("expected empty non-nil turns, got %v", got.Turns)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	store := setupTestStore(t)
	got, err := store.GetConversation(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestTurnsKeepInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	conv, _ := store.CreateConversation(ctx, "")

	ts := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)
	inputs := []Turn{
		{Role: RoleUser, Text: "one", Timestamp: ts},
		{Role: RoleBot, Text: "two", Timestamp: ts.Add(time.Second)},
		{Role: RoleUser, Text: "three"},
	}
	for _, in := range inputs {
		if _, err := store.AddTurn(ctx, conv.ID, in); err != nil {
			t.Fatalf("AddTurn(%q): %v", in.Text, err)
		}
	}

	got, err := store.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(got.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got.Turns))
	}
	for i, want := range []string{"one", "two", "three"} {
		if got.Turns[i].Text != want {
			t.Errorf("turn %d: expected %q, got %q", i, want, got.Turns[i].Text)
		}
	}
	if !got.Turns[0].Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, got.Turns[0].Timestamp)
	}
	if got.Turns[2].Timestamp.IsZero() {
		t.Error("expected a timestamp to be assigned")
	}
}

func TestAddTurnRejectsUnknownRole(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	conv, _ := store.CreateConversation(ctx, "")

	if _, err := store.AddTurn(ctx, conv.ID, Turn{Role: "assistant", Text: "hi"}); err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAddTurnRejectsBackdatedTurn(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	conv, _ := store.CreateConversation(ctx, "")

	ts := time.Date(2025, 5, 4, 7, 10, 0, 0, time.UTC)
	if _, err := store.AddTurn(ctx, conv.ID, Turn{Role: RoleUser, Text: "milking done", Timestamp: ts}); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}
	_, err := store.AddTurn(ctx, conv.ID, Turn{Role: RoleBot, Text: "late", Timestamp: ts.Add(-5 * time.Minute)})
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	if _, err := store.AddTurn(ctx, conv.ID, Turn{Role: RoleBot, Text: "same time", Timestamp: ts}); err != nil {
		t.Fatalf("AddTurn with equal timestamp: %v", err)
	}
	if _, err := store.AddTurn(ctx, conv.ID, Turn{Role: RoleUser, Text: "feed costs are up"}); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}

	got, err := store.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(got.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got.Turns))
	}
	if _, err := NewEngine(store, nil, "").Lens(*got); err != nil {
		t.Errorf("conversation should stay analyzable: %v", err)
	}
}

func TestAddTurnUnknownConversation(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.AddTurn(context.Background(), "missing", Turn{Role: RoleUser, Text: "hi"}); err == nil {
		t.Error("expected foreign key error")
	}
}

func TestSaveAndListAnalyses(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	conv, _ := store.CreateConversation(ctx, "")
	store.AddTurn(ctx, conv.ID, Turn{Role: RoleUser, Text: "Feed costs are killing us"})

	full, _ := store.GetConversation(ctx, conv.ID)
	l, err := NewEngine(store, nil, "").Lens(*full)
	if err != nil {
		t.Fatalf("Lens: %v", err)
	}

	saved, err := store.SaveAnalysis(ctx, conv.ID, KindLens, len(full.Turns), l, l)
	if err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	if saved.Orientation != l.Metadata.Orientation {
		t.Errorf("expected orientation %q, got %q", l.Metadata.Orientation, saved.Orientation)
	}

	list, err := store.ListAnalyses(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 analysis, got %d", len(list))
	}
	if list[0].Kind != KindLens || list[0].TurnCount != 1 {
		t.Errorf("unexpected analysis %+v", list[0])
	}

	var back Lens
	if err := json.Unmarshal(list[0].Result, &back); err != nil {
		t.Fatalf("unmarshal stored lens: %v", err)
	}
	if back.Reply.Full != l.Reply.Full {
		t.Errorf("stored reply %q, want %q", back.Reply.Full, l.Reply.Full)
	}
}

func TestListConversations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	store.CreateConversation(ctx, "a")
	store.CreateConversation(ctx, "b")

	convs, err := store.ListConversations(ctx, 0)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Errorf("expected 2 conversations, got %d", len(convs))
	}

	count, err := store.CountConversations(ctx)
	if err != nil || count != 2 {
		t.Errorf("CountConversations = %d, %v", count, err)
	}
}
