// Package imagegen implements the file handshake with the out-of-process
// image generator plus the generator itself. The shared record is the only
// cross-process mutable state in the system: the orchestrator writes
// (prompt, pending=true) to request work, the generator polls the file and
// rewrites it with pending=false when done.
package imagegen

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Record is the two-field handshake tuple serialized as
// "<prompt>,<True|False>". The pending flag is always the final
// comma-separated field; the prompt itself may contain commas.
type Record struct {
	Prompt  string
	Pending bool
}

// ErrMalformed marks a record that cannot be split into prompt and flag.
// Readers treat it as transient: retry after a short delay, never crash.
var ErrMalformed = errors.New("malformed image generation record")

// Idle reports whether there is nothing to generate.
func (r Record) Idle() bool {
	return !r.Pending || strings.TrimSpace(r.Prompt) == ""
}

func (r Record) String() string {
	flag := "False"
	if r.Pending {
		flag = "True"
	}
	return r.Prompt + "," + flag
}

// WriteRecord overwrites the shared record file.
func WriteRecord(path string, r Record) error {
	if err := os.WriteFile(path, []byte(r.String()), 0644); err != nil {
		return fmt.Errorf("failed to write image record: %w", err)
	}
	return nil
}

// ReadRecord reads the shared record. A missing file self-heals: an empty
// idle record is written and returned. Content without a comma separator
// is reported as ErrMalformed.
func ReadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			idle := Record{}
			if werr := WriteRecord(path, idle); werr != nil {
				return Record{}, werr
			}
			return idle, nil
		}
		return Record{}, fmt.Errorf("failed to read image record: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return Record{}, nil
	}

	// The flag is the final field so prompts may contain commas.
	sep := strings.LastIndex(content, ",")
	if sep < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformed, content)
	}

	return Record{
		Prompt:  strings.TrimSpace(content[:sep]),
		Pending: strings.EqualFold(strings.TrimSpace(content[sep+1:]), "true"),
	}, nil
}
