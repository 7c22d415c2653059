package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Darkweeb21/Friday/pkg/types"
)

func TestAppendAndSnapshot(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "ChatLog.json"))

	h.Append(types.RoleUser, "hello")
	h.Append(types.RoleAssistant, "hi there")

	snap := h.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot length = %d, want 2", len(snap))
	}
	if snap[0].Role != types.RoleUser || snap[0].Content != "hello" {
		t.Errorf("Unexpected first message: %+v", snap[0])
	}

	// Mutating the snapshot must not affect the transcript
	snap[0].Content = "changed"
	if h.Snapshot()[0].Content != "hello" {
		t.Error("Snapshot should be a copy")
	}
}

func TestTail(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "ChatLog.json"))
	for i := 0; i < 5; i++ {
		h.Append(types.RoleUser, "msg")
	}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"subset", 3, 3},
		{"all", 5, 5},
		{"more than available", 10, 5},
		{"zero means all", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(h.Tail(tt.n)); got != tt.want {
				t.Errorf("Tail(%d) length = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ChatLog.json")

	h := NewHistory(path)
	h.Append(types.RoleUser, "what is go?")
	h.Append(types.RoleAssistant, "a programming language")
	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("Len after reload = %d, want 2", reloaded.Len())
	}
	if reloaded.Snapshot()[1].Content != "a programming language" {
		t.Error("Reloaded content mismatch")
	}
}

func TestLoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "ChatLog.json"))
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file should self-heal, got: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ChatLog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of corrupt file should self-heal, got: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}
