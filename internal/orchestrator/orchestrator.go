package orchestrator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Darkweeb21/Friday/internal/chat"
	"github.com/Darkweeb21/Friday/internal/display"
	"github.com/Darkweeb21/Friday/internal/intent"
	"github.com/Darkweeb21/Friday/internal/session"
	"github.com/Darkweeb21/Friday/internal/speech"
	"github.com/Darkweeb21/Friday/pkg/types"
)

// Classifier turns one utterance into command fragments.
type Classifier interface {
	Classify(ctx context.Context, utterance string) ([]string, error)
}

// AutomationDispatcher executes a batch of automation commands.
type AutomationDispatcher interface {
	Dispatch(ctx context.Context, commands []types.Intent) []types.ExecutionResult
}

// Conversationalist answers a general query from the transcript context.
type Conversationalist interface {
	Reply(ctx context.Context, query string, history *session.History) (string, error)
}

// RealtimeAnswerer answers a query that needs fresh information from the
// web.
type RealtimeAnswerer interface {
	Answer(ctx context.Context, query string, history *session.History) (string, error)
}

// ImageRequester hands an image prompt to the out-of-process generator.
type ImageRequester interface {
	Request(prompt string) error
	TerminateAll()
}

// Orchestrator runs one decision cycle at a time: pull an utterance,
// classify it, fan automation out, answer the conversational part, and
// keep the display files current throughout.
type Orchestrator struct {
	classifier Classifier
	dispatcher AutomationDispatcher
	chatbot    Conversationalist
	realtime   RealtimeAnswerer
	recognizer speech.Recognizer
	speaker    speech.Speaker
	images     ImageRequester
	display    *display.Store
	history    *session.History

	username      string
	assistantName string
	micPoll       time.Duration

	// exitFunc terminates the whole process on an exit command. Tests
	// swap it out.
	exitFunc func(code int)
}

// Options carries the collaborator set for New. All collaborators are
// required except Speaker and Images, which default to no-ops.
type Options struct {
	Classifier    Classifier
	Dispatcher    AutomationDispatcher
	Chatbot       Conversationalist
	Realtime      RealtimeAnswerer
	Recognizer    speech.Recognizer
	Speaker       speech.Speaker
	Images        ImageRequester
	Display       *display.Store
	History       *session.History
	Username      string
	AssistantName string
	MicPoll       time.Duration
	ExitFunc      func(code int)
}

// New assembles an orchestrator from its collaborators.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		classifier:    opts.Classifier,
		dispatcher:    opts.Dispatcher,
		chatbot:       opts.Chatbot,
		realtime:      opts.Realtime,
		recognizer:    opts.Recognizer,
		speaker:       opts.Speaker,
		images:        opts.Images,
		display:       opts.Display,
		history:       opts.History,
		username:      opts.Username,
		assistantName: opts.AssistantName,
		micPoll:       opts.MicPoll,
		exitFunc:      opts.ExitFunc,
	}
	if o.speaker == nil {
		o.speaker = speech.NullSpeaker{}
	}
	if o.micPoll <= 0 {
		o.micPoll = 100 * time.Millisecond
	}
	if o.exitFunc == nil {
		o.exitFunc = os.Exit
	}
	return o
}

// Run is the idle loop: while the microphone flag is raised a cycle runs,
// otherwise the loop sleeps one poll interval. Run returns only on
// context cancellation.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if o.display.Microphone() {
			o.RunCycle(ctx)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.micPoll):
		}
	}
}

// RunCycle executes exactly one decision cycle. A collaborator failure
// logs, resets the status and returns; it never takes the process down.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	if err := o.display.SetStatus(types.StatusListening); err != nil {
		log.Printf("Failed to set status: %v", err)
	}

	utterance, err := o.recognizer.Next(ctx)
	if err != nil || strings.TrimSpace(utterance) == "" {
		o.display.SetStatus(types.StatusAvailable)
		return
	}

	if err := o.history.Load(); err != nil {
		log.Printf("Failed to load transcript: %v", err)
	}
	o.display.ShowText(fmt.Sprintf("%s : %s", o.username, utterance))

	o.display.SetStatus(types.StatusThinking)
	fragments, err := o.classifier.Classify(ctx, utterance)
	if err != nil {
		log.Printf("Classification failed: %v", err)
		o.display.SetStatus(types.StatusAvailable)
		return
	}

	var (
		automation     []types.Intent
		conversational []types.Intent
		imagePrompt    string
		hasImage       bool
		hasRealtime    bool
		hasGeneral     bool
		hasExit        bool
	)
	for _, fragment := range fragments {
		parsed, ok := intent.Parse(fragment)
		if !ok {
			continue
		}
		switch {
		case parsed.IsAutomation():
			automation = append(automation, parsed)
		case parsed.IsConversational():
			conversational = append(conversational, parsed)
			if parsed.Verb == types.VerbRealtime {
				hasRealtime = true
			} else {
				hasGeneral = true
			}
		case parsed.Verb == types.VerbGenerateImage:
			imagePrompt = parsed.Arg
			hasImage = true
		case parsed.Verb == types.VerbExit:
			hasExit = true
		}
	}

	// Automation never blocks the answer path.
	if len(automation) > 0 {
		go func(commands []types.Intent) {
			for _, result := range o.dispatcher.Dispatch(ctx, commands) {
				if !result.Success {
					log.Printf("Command %q %q failed: %s", result.Intent.Verb, result.Intent.Arg, result.Message)
				}
			}
		}(automation)
	}

	if hasImage && o.images != nil {
		if err := o.images.Request(imagePrompt); err != nil {
			log.Printf("Image generation request failed: %v", err)
		}
	}

	merged := chat.ModifyQuery(mergedQuery(conversational))

	switch {
	case hasRealtime:
		o.display.SetStatus(types.StatusSearching)
		answer, err := o.realtime.Answer(ctx, merged, o.history)
		if err != nil {
			log.Printf("Realtime answer failed: %v", err)
			o.display.SetStatus(types.StatusAvailable)
			return
		}
		o.deliver(ctx, answer)

	case hasGeneral:
		answer, err := o.chatbot.Reply(ctx, merged, o.history)
		if err != nil {
			log.Printf("Chat answer failed: %v", err)
			o.display.SetStatus(types.StatusAvailable)
			return
		}
		o.deliver(ctx, answer)

	case hasExit:
		o.shutdown(ctx)
		return
	}

	if err := o.history.Save(); err != nil {
		log.Printf("Failed to save transcript: %v", err)
	}
	o.renderBacklog()
	o.display.SetStatus(types.StatusAvailable)
}

// deliver puts the answer on screen and voices it.
func (o *Orchestrator) deliver(ctx context.Context, answer string) {
	o.display.SetStatus(types.StatusAnswering)
	o.display.ShowText(fmt.Sprintf("%s : %s", o.assistantName, answer))
	if err := o.speaker.Speak(ctx, answer); err != nil {
		log.Printf("Speech output failed: %v", err)
	}
}

// shutdown voices a farewell, stops tracked worker processes and ends
// the process.
func (o *Orchestrator) shutdown(ctx context.Context) {
	answer, err := o.chatbot.Reply(ctx, "Okay, Bye!", o.history)
	if err != nil {
		log.Printf("Farewell failed: %v", err)
		answer = "Okay, Bye!"
	}
	o.deliver(ctx, answer)

	if err := o.history.Save(); err != nil {
		log.Printf("Failed to save transcript: %v", err)
	}
	if o.images != nil {
		o.images.TerminateAll()
	}
	log.Println("Exit command received, shutting down")
	o.exitFunc(0)
}

// mergedQuery joins the conversational fragment arguments in classifier
// order into the single query the answer engines see.
func mergedQuery(conversational []types.Intent) string {
	args := make([]string, 0, len(conversational))
	for _, c := range conversational {
		args = append(args, c.Arg)
	}
	return strings.Join(args, " and ")
}
