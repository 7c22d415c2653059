// Package display owns the small file-backed values shared with the
// external display surface: assistant status, microphone flag, the current
// response text and the rendered chat backlog. Each file holds a single
// value and is overwritten on every write; readers and the writer may be
// different processes and the design tolerates last-write-wins races.
package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the single-value overwrite files under one
// directory.
type Store struct {
	dir string
}

// File names under the shared files directory.
const (
	statusFile   = "Status.data"
	micFile      = "Mic.data"
	responseFile = "Responses.data"
	backlogFile  = "Database.data"
)

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create display directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) write(name, value string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// read returns the file content, or "" when the file does not exist yet.
func (s *Store) read(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// SetStatus overwrites the assistant status.
func (s *Store) SetStatus(status string) error {
	return s.write(statusFile, status)
}

// Status returns the last written assistant status.
func (s *Store) Status() string {
	return s.read(statusFile)
}

// SetMicrophone overwrites the microphone-enabled flag.
func (s *Store) SetMicrophone(enabled bool) error {
	if enabled {
		return s.write(micFile, "True")
	}
	return s.write(micFile, "False")
}

// Microphone reports whether the external surface has enabled the
// microphone. A missing or unreadable flag counts as disabled.
func (s *Store) Microphone() bool {
	return strings.EqualFold(strings.TrimSpace(s.read(micFile)), "true")
}

// ShowText overwrites the current response text.
func (s *Store) ShowText(text string) error {
	return s.write(responseFile, text)
}

// Response returns the current response text.
func (s *Store) Response() string {
	return s.read(responseFile)
}

// SetBacklog overwrites the rendered chat backlog used by the display at
// startup.
func (s *Store) SetBacklog(text string) error {
	return s.write(backlogFile, text)
}

// Backlog returns the rendered chat backlog.
func (s *Store) Backlog() string {
	return s.read(backlogFile)
}
