// Package session owns the conversation transcript: an append-only,
// role-tagged message list held by the orchestrator and persisted wholesale
// to a JSON file. The file is read in full at cycle start and rewritten in
// full at cycle end; there is no incremental append format.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Darkweeb21/Friday/pkg/types"
)

// History is the explicitly owned conversation transcript. It is passed to
// the collaborators that need context instead of living in package-level
// state.
type History struct {
	mu       sync.RWMutex
	path     string
	messages []types.Message
}

// NewHistory creates a transcript backed by the JSON file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads the transcript wholesale. A missing or corrupt file
// self-heals to an empty transcript.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.messages = []types.Message{}
			return nil
		}
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	var messages []types.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		log.Printf("Transcript is corrupted, starting empty: %v", err)
		h.messages = []types.Message{}
		return nil
	}

	h.messages = messages
	return nil
}

// Save rewrites the transcript file wholesale.
func (h *History) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.MarshalIndent(h.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// Append adds one role-tagged message.
func (h *History) Append(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, types.Message{Role: role, Content: content})
}

// Snapshot returns a copy of the full transcript.
func (h *History) Snapshot() []types.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]types.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Tail returns a copy of the most recent n messages.
func (h *History) Tail(n int) []types.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.messages) {
		n = len(h.messages)
	}
	out := make([]types.Message, n)
	copy(out, h.messages[len(h.messages)-n:])
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}
