package orchestrator

import (
	"fmt"
	"log"
	"strings"

	"github.com/Darkweeb21/Friday/pkg/types"
)

// Startup brings the runtime files into a known state before the first
// cycle: microphone off, a greeting seeded into an empty transcript, the
// backlog rendered for the display.
func (o *Orchestrator) Startup() error {
	if err := o.display.SetMicrophone(false); err != nil {
		return fmt.Errorf("failed to reset microphone flag: %w", err)
	}
	if err := o.display.SetStatus(types.StatusInitializing); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}

	if err := o.history.Load(); err != nil {
		log.Printf("Failed to load transcript: %v", err)
	}
	if o.history.Len() == 0 {
		greeting := fmt.Sprintf("Hello %s, I am %s. How may I help you?", o.username, o.assistantName)
		o.history.Append(types.RoleAssistant, greeting)
		if err := o.history.Save(); err != nil {
			return fmt.Errorf("failed to seed transcript: %w", err)
		}
		o.display.ShowText(fmt.Sprintf("%s : %s", o.assistantName, greeting))
	}

	o.renderBacklog()

	if err := o.display.SetStatus(types.StatusReady); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// renderBacklog rewrites the display backlog from the full transcript,
// one "name : text" line per turn.
func (o *Orchestrator) renderBacklog() {
	var b strings.Builder
	for _, msg := range o.history.Snapshot() {
		name := o.assistantName
		if msg.Role == types.RoleUser {
			name = o.username
		}
		fmt.Fprintf(&b, "%s : %s\n", name, msg.Content)
	}
	if err := o.display.SetBacklog(b.String()); err != nil {
		log.Printf("Failed to render backlog: %v", err)
	}
}
