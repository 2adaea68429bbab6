package store

import (
	"errors"
	"testing"
)

func TestAppendAndRecentTurns(t *testing.T) {
	db := testDB(t)

	for _, turn := range []struct{ role, content string }{
		{"user", "add a login page"},
		{"assistant", "done, see auth.go"},
		{"user", "now add logout"},
	} {
		if _, err := db.AppendTurn(turn.role, turn.content); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	turns, err := db.RecentTurns(2)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Content != "now add logout" {
		t.Errorf("newest turn = %q, want the last appended", turns[0].Content)
	}
	if turns[1].Role != "assistant" {
		t.Errorf("second turn role = %q, want assistant", turns[1].Role)
	}
}

func TestAppendTurnValidation(t *testing.T) {
	db := testDB(t)

	if _, err := db.AppendTurn("", "content"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty role = %v, want ErrInvalidInput", err)
	}
	if _, err := db.AppendTurn("user", " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty content = %v, want ErrInvalidInput", err)
	}
}
