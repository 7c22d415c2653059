// Package automation fans validated commands out to per-verb handlers and
// joins their results. One failing command never sinks the rest of the
// batch; the dispatcher itself never returns an error.
package automation

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Darkweeb21/Friday/internal/chat"
	"github.com/Darkweeb21/Friday/internal/websearch"
	"github.com/Darkweeb21/Friday/pkg/types"
)

// browserNames guard the close verb: terminating the user's active browser
// is a deliberate no-op.
var browserNames = []string{"chrome"}

// mediaKeyFor maps system actions to media keys. Actions outside this map
// are silently ignored.
var mediaKeyFor = map[string]string{
	"mute":        "XF86AudioMute",
	"unmute":      "XF86AudioMute",
	"volume_up":   "XF86AudioRaiseVolume",
	"volume_down": "XF86AudioLowerVolume",
}

// Dispatcher executes automation commands concurrently.
type Dispatcher struct {
	launcher AppLauncher
	opener   Opener
	keys     MediaKeys
	searcher websearch.Searcher
	llm      chat.LLM
	dataDir  string
	username string
}

// NewDispatcher wires the dispatcher with its collaborators. Generated
// content files are written under dataDir.
func NewDispatcher(launcher AppLauncher, opener Opener, keys MediaKeys, searcher websearch.Searcher, llm chat.LLM, dataDir, username string) *Dispatcher {
	return &Dispatcher{
		launcher: launcher,
		opener:   opener,
		keys:     keys,
		searcher: searcher,
		llm:      llm,
		dataDir:  dataDir,
		username: username,
	}
}

// Dispatch runs every command in its own goroutine and blocks until all of
// them finish. It returns exactly one result per command, in input order.
// Handler errors and panics stay inside their slot.
func (d *Dispatcher) Dispatch(ctx context.Context, commands []types.Intent) []types.ExecutionResult {
	log.Printf("Dispatching %d automation commands", len(commands))

	results := make([]types.ExecutionResult, len(commands))

	var wg sync.WaitGroup
	for i, cmd := range commands {
		wg.Add(1)
		go func(i int, cmd types.Intent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Handler for %q panicked: %v", cmd.Verb, r)
					results[i] = types.ExecutionResult{
						Intent:  cmd,
						Success: false,
						Error:   fmt.Sprintf("handler panicked: %v", r),
					}
				}
			}()
			results[i] = d.execute(ctx, cmd)
		}(i, cmd)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) execute(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	log.Printf("Executing command: %s %s", cmd.Verb, cmd.Arg)

	switch cmd.Verb {
	case types.VerbOpen:
		return d.handleOpen(ctx, cmd)
	case types.VerbClose:
		return d.handleClose(ctx, cmd)
	case types.VerbPlay:
		return d.handlePlay(ctx, cmd)
	case types.VerbContent:
		return d.handleContent(ctx, cmd)
	case types.VerbGoogleSearch:
		return d.handleGoogleSearch(ctx, cmd)
	case types.VerbYoutubeSearch:
		return d.handleYoutubeSearch(ctx, cmd)
	case types.VerbSystem:
		return d.handleSystem(ctx, cmd)
	}

	log.Printf("No handler for command: %s %s", cmd.Verb, cmd.Arg)
	return types.ExecutionResult{
		Intent:  cmd,
		Success: false,
		Error:   fmt.Sprintf("no handler for verb %q", cmd.Verb),
	}
}

// handleOpen launches the app, falling back to opening the top web result
// for its name. The verb always reports success; that weak contract is
// inherited from the source system and callers must not rely on open
// failures being visible.
func (d *Dispatcher) handleOpen(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	if err := d.launcher.Launch(ctx, cmd.Arg); err != nil {
		log.Printf("Launcher failed for %q, falling back to web search: %v", cmd.Arg, err)
		if links, serr := d.searcher.Links(ctx, cmd.Arg, 1); serr == nil && len(links) > 0 {
			if oerr := d.opener.OpenURL(ctx, links[0]); oerr != nil {
				log.Printf("Fallback open failed for %q: %v", cmd.Arg, oerr)
			}
		} else {
			log.Printf("Fallback search failed for %q: %v", cmd.Arg, serr)
		}
	}

	return types.ExecutionResult{Intent: cmd, Success: true}
}

func (d *Dispatcher) handleClose(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	lower := strings.ToLower(cmd.Arg)
	for _, browser := range browserNames {
		if strings.Contains(lower, browser) {
			// Never kill the user's active browser.
			log.Printf("Refusing to close browser process %q", cmd.Arg)
			return types.ExecutionResult{Intent: cmd, Success: true}
		}
	}

	if err := d.launcher.Terminate(ctx, cmd.Arg); err != nil {
		log.Printf("Failed to close %q: %v", cmd.Arg, err)
		return types.ExecutionResult{Intent: cmd, Success: false, Error: err.Error()}
	}
	return types.ExecutionResult{Intent: cmd, Success: true}
}

// handlePlay opens the media search for the query. Success is reported once
// the call is issued; playback itself is never confirmed.
func (d *Dispatcher) handlePlay(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	playURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(cmd.Arg)
	if err := d.opener.OpenURL(ctx, playURL); err != nil {
		log.Printf("Failed to open player for %q: %v", cmd.Arg, err)
	}
	return types.ExecutionResult{Intent: cmd, Success: true}
}

// handleContent asks the writing model for the topic, saves the text to a
// topic-named file and opens it in the default viewer.
func (d *Dispatcher) handleContent(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	topic := strings.TrimSpace(strings.TrimPrefix(cmd.Arg, "Content"))

	messages := []types.Message{
		{Role: types.RoleSystem, Content: fmt.Sprintf("Hello, I am %s. You're a content writer. You have to write content like letters, essays, applications and articles.", d.username)},
		{Role: types.RoleUser, Content: topic},
	}

	text, err := d.llm.ChatCompletion(ctx, messages)
	if err != nil {
		log.Printf("Content generation failed for %q: %v", topic, err)
		return types.ExecutionResult{Intent: cmd, Success: false, Error: err.Error()}
	}

	path := filepath.Join(d.dataDir, contentFileName(topic))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		log.Printf("Failed to save content for %q: %v", topic, err)
		return types.ExecutionResult{Intent: cmd, Success: false, Error: err.Error()}
	}

	if err := d.opener.OpenFile(ctx, path); err != nil {
		log.Printf("Failed to open content file %s: %v", path, err)
	}

	// Success is reported once the file is written, whether or not the
	// viewer opened.
	return types.ExecutionResult{Intent: cmd, Success: true, Message: path}
}

// contentFileName flattens the topic into a safe file name: lower-cased,
// spaces removed, path separators stripped.
func contentFileName(topic string) string {
	name := strings.ToLower(topic)
	name = strings.ReplaceAll(name, " ", "")
	for _, sep := range []string{"/", "\\", "..", ":"} {
		name = strings.ReplaceAll(name, sep, "")
	}
	if name == "" {
		name = "content"
	}
	return name + ".txt"
}

func (d *Dispatcher) handleGoogleSearch(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(cmd.Arg)
	if err := d.opener.OpenURL(ctx, searchURL); err != nil {
		log.Printf("Failed to open google search for %q: %v", cmd.Arg, err)
	}
	return types.ExecutionResult{Intent: cmd, Success: true}
}

func (d *Dispatcher) handleYoutubeSearch(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(cmd.Arg)
	if err := d.opener.OpenURL(ctx, searchURL); err != nil {
		log.Printf("Failed to open youtube search for %q: %v", cmd.Arg, err)
	}
	return types.ExecutionResult{Intent: cmd, Success: true}
}

// handleSystem presses the media key for the action. Unknown actions are
// silently ignored, reproducing the permissive contract of the source
// system.
func (d *Dispatcher) handleSystem(ctx context.Context, cmd types.Intent) types.ExecutionResult {
	key, known := mediaKeyFor[strings.ToLower(strings.TrimSpace(cmd.Arg))]
	if !known {
		log.Printf("Ignoring unknown system action %q", cmd.Arg)
		return types.ExecutionResult{Intent: cmd, Success: true}
	}

	if err := d.keys.Press(ctx, key); err != nil {
		log.Printf("Media key press failed for %q: %v", cmd.Arg, err)
		return types.ExecutionResult{Intent: cmd, Success: false, Error: err.Error()}
	}
	return types.ExecutionResult{Intent: cmd, Success: true}
}
