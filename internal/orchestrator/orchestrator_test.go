package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Darkweeb21/Friday/internal/display"
	"github.com/Darkweeb21/Friday/internal/session"
	"github.com/Darkweeb21/Friday/pkg/types"
)

type fakeClassifier struct {
	fragments  []string
	err        error
	utterances []string
}

func (f *fakeClassifier) Classify(ctx context.Context, utterance string) ([]string, error) {
	f.utterances = append(f.utterances, utterance)
	return f.fragments, f.err
}

type fakeDispatcher struct {
	mu       sync.Mutex
	commands []types.Intent
	done     chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{done: make(chan struct{}, 1)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, commands []types.Intent) []types.ExecutionResult {
	f.mu.Lock()
	f.commands = append(f.commands, commands...)
	f.mu.Unlock()
	results := make([]types.ExecutionResult, len(commands))
	for i, c := range commands {
		results[i] = types.ExecutionResult{Intent: c, Success: true}
	}
	select {
	case f.done <- struct{}{}:
	default:
	}
	return results
}

func (f *fakeDispatcher) received() []types.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Intent(nil), f.commands...)
}

type fakeChatbot struct {
	queries []string
	answer  string
	err     error
}

func (f *fakeChatbot) Reply(ctx context.Context, query string, history *session.History) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	history.Append(types.RoleUser, query)
	history.Append(types.RoleAssistant, f.answer)
	return f.answer, nil
}

type fakeRealtime struct {
	queries []string
	answer  string
	err     error
}

func (f *fakeRealtime) Answer(ctx context.Context, query string, history *session.History) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	history.Append(types.RoleUser, query)
	history.Append(types.RoleAssistant, f.answer)
	return f.answer, nil
}

type fakeRecognizer struct {
	utterance string
	err       error
}

func (f *fakeRecognizer) Next(ctx context.Context) (string, error) {
	return f.utterance, f.err
}

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.spoken = append(f.spoken, text)
	return nil
}

type fakeImages struct {
	prompts    []string
	terminated bool
}

func (f *fakeImages) Request(prompt string) error {
	f.prompts = append(f.prompts, prompt)
	return nil
}

func (f *fakeImages) TerminateAll() { f.terminated = true }

type harness struct {
	orch       *Orchestrator
	classifier *fakeClassifier
	dispatcher *fakeDispatcher
	chatbot    *fakeChatbot
	realtime   *fakeRealtime
	speaker    *fakeSpeaker
	images     *fakeImages
	store      *display.Store
	exitCodes  []int
}

func newHarness(t *testing.T, utterance string, fragments []string) *harness {
	t.Helper()
	dir := t.TempDir()
	store, err := display.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	h := &harness{
		classifier: &fakeClassifier{fragments: fragments},
		dispatcher: newFakeDispatcher(),
		chatbot:    &fakeChatbot{answer: "chat answer"},
		realtime:   &fakeRealtime{answer: "realtime answer"},
		speaker:    &fakeSpeaker{},
		images:     &fakeImages{},
		store:      store,
	}
	h.orch = New(Options{
		Classifier:    h.classifier,
		Dispatcher:    h.dispatcher,
		Chatbot:       h.chatbot,
		Realtime:      h.realtime,
		Recognizer:    &fakeRecognizer{utterance: utterance},
		Speaker:       h.speaker,
		Images:        h.images,
		Display:       store,
		History:       session.NewHistory(filepath.Join(dir, "ChatLog.json")),
		Username:      "Alex",
		AssistantName: "Friday",
		ExitFunc:      func(code int) { h.exitCodes = append(h.exitCodes, code) },
	})
	return h
}

func TestGeneralTurnAnswersAndReturnsToAvailable(t *testing.T) {
	h := newHarness(t, "how are you", []string{"general how are you"})
	h.orch.RunCycle(context.Background())

	if len(h.chatbot.queries) != 1 || h.chatbot.queries[0] != "How are you?" {
		t.Fatalf("chatbot queries = %v", h.chatbot.queries)
	}
	if len(h.realtime.queries) != 0 {
		t.Fatalf("realtime must not run for a general turn: %v", h.realtime.queries)
	}
	if got := h.store.Response(); got != "Friday : chat answer" {
		t.Fatalf("response = %q", got)
	}
	if len(h.speaker.spoken) != 1 || h.speaker.spoken[0] != "chat answer" {
		t.Fatalf("spoken = %v", h.speaker.spoken)
	}
	if got := h.store.Status(); got != types.StatusAvailable {
		t.Fatalf("final status = %q", got)
	}
}

func TestMixedTurnMergesQueryAndPrefersRealtime(t *testing.T) {
	h := newHarness(t, "how are you and who won the game", []string{
		"general how are you",
		"realtime who won the game",
	})
	h.orch.RunCycle(context.Background())

	if len(h.realtime.queries) != 1 {
		t.Fatalf("realtime queries = %v", h.realtime.queries)
	}
	if got := h.realtime.queries[0]; got != "How are you and who won the game?" {
		t.Fatalf("merged query = %q", got)
	}
	if len(h.chatbot.queries) != 0 {
		t.Fatalf("chatbot must not run when realtime is present: %v", h.chatbot.queries)
	}
}

func TestAutomationOnlyTurnProducesNoAnswer(t *testing.T) {
	h := newHarness(t, "open chrome", []string{"open chrome"})
	h.orch.RunCycle(context.Background())

	select {
	case <-h.dispatcher.done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher never ran")
	}

	got := h.dispatcher.received()
	if len(got) != 1 || got[0].Verb != types.VerbOpen || got[0].Arg != "chrome" {
		t.Fatalf("dispatched = %v", got)
	}
	if len(h.speaker.spoken) != 0 {
		t.Fatalf("automation-only turn must not speak: %v", h.speaker.spoken)
	}
	if len(h.chatbot.queries)+len(h.realtime.queries) != 0 {
		t.Fatal("no answer engine may run for an automation-only turn")
	}
	if got := h.store.Status(); got != types.StatusAvailable {
		t.Fatalf("final status = %q", got)
	}
}

func TestAutomationRunsAlongsideAnswer(t *testing.T) {
	h := newHarness(t, "open chrome and how are you", []string{
		"open chrome",
		"general how are you",
	})
	h.orch.RunCycle(context.Background())

	select {
	case <-h.dispatcher.done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher never ran")
	}
	if len(h.chatbot.queries) != 1 || h.chatbot.queries[0] != "How are you?" {
		t.Fatalf("chatbot queries = %v", h.chatbot.queries)
	}
}

func TestImageFragmentRaisesRequest(t *testing.T) {
	h := newHarness(t, "generate image of a lion", []string{"generate image of a lion"})
	h.orch.RunCycle(context.Background())

	if len(h.images.prompts) != 1 || h.images.prompts[0] != "of a lion" {
		t.Fatalf("image prompts = %v", h.images.prompts)
	}
	if len(h.speaker.spoken) != 0 {
		t.Fatalf("image-only turn must not speak: %v", h.speaker.spoken)
	}
}

func TestExitSpeaksFarewellAndTerminates(t *testing.T) {
	h := newHarness(t, "goodbye", []string{"exit"})
	h.chatbot.answer = "Goodbye Alex, have a nice day."
	h.orch.RunCycle(context.Background())

	if len(h.chatbot.queries) != 1 {
		t.Fatalf("farewell not requested: %v", h.chatbot.queries)
	}
	if len(h.speaker.spoken) != 1 || h.speaker.spoken[0] != "Goodbye Alex, have a nice day." {
		t.Fatalf("spoken = %v", h.speaker.spoken)
	}
	if !h.images.terminated {
		t.Fatal("tracked workers must be terminated on exit")
	}
	if len(h.exitCodes) != 1 || h.exitCodes[0] != 0 {
		t.Fatalf("exit codes = %v", h.exitCodes)
	}
}

func TestClassifierFailureAbortsCycle(t *testing.T) {
	h := newHarness(t, "how are you", nil)
	h.classifier.err = errors.New("provider down")
	h.orch.RunCycle(context.Background())

	if len(h.chatbot.queries)+len(h.realtime.queries) != 0 {
		t.Fatal("no engine may run after a classification failure")
	}
	if got := h.store.Status(); got != types.StatusAvailable {
		t.Fatalf("final status = %q", got)
	}
}

func TestEmptyUtteranceAbortsBeforeClassification(t *testing.T) {
	h := newHarness(t, "   ", nil)
	h.orch.RunCycle(context.Background())

	if len(h.classifier.utterances) != 0 {
		t.Fatalf("classifier must not see a blank utterance: %v", h.classifier.utterances)
	}
	if got := h.store.Status(); got != types.StatusAvailable {
		t.Fatalf("final status = %q", got)
	}
}

func TestAnswerFailureResetsStatus(t *testing.T) {
	h := newHarness(t, "how are you", []string{"general how are you"})
	h.chatbot.err = errors.New("provider down")
	h.orch.RunCycle(context.Background())

	if len(h.speaker.spoken) != 0 {
		t.Fatalf("failed answer must not be spoken: %v", h.speaker.spoken)
	}
	if got := h.store.Status(); got != types.StatusAvailable {
		t.Fatalf("final status = %q", got)
	}
}

func TestDriftFragmentsAreIgnored(t *testing.T) {
	h := newHarness(t, "how are you", []string{
		"sing a song",
		"general how are you",
	})
	h.orch.RunCycle(context.Background())

	if len(h.chatbot.queries) != 1 || h.chatbot.queries[0] != "How are you?" {
		t.Fatalf("chatbot queries = %v", h.chatbot.queries)
	}
	if got := h.dispatcher.received(); len(got) != 0 {
		t.Fatalf("drift must not be dispatched: %v", got)
	}
}

func TestStartupSeedsGreetingAndRendersBacklog(t *testing.T) {
	h := newHarness(t, "", nil)
	if err := h.orch.Startup(); err != nil {
		t.Fatalf("Startup: %v", err)
	}

	if h.store.Microphone() {
		t.Fatal("microphone must start disabled")
	}
	if got := h.store.Status(); got != types.StatusReady {
		t.Fatalf("status = %q", got)
	}
	backlog := h.store.Backlog()
	if !strings.Contains(backlog, "Friday : Hello Alex") {
		t.Fatalf("backlog missing greeting: %q", backlog)
	}
}

func TestStartupKeepsExistingTranscript(t *testing.T) {
	h := newHarness(t, "", nil)
	if err := h.orch.Startup(); err != nil {
		t.Fatal(err)
	}
	first := h.store.Backlog()

	// A second startup over the same transcript must not add a second
	// greeting.
	if err := h.orch.Startup(); err != nil {
		t.Fatal(err)
	}
	if got := h.store.Backlog(); got != first {
		t.Fatalf("backlog changed across restarts:\n%q\n%q", first, got)
	}
}

func TestMergedQueryJoinsFragmentsInOrder(t *testing.T) {
	got := mergedQuery([]types.Intent{
		{Verb: types.VerbGeneral, Arg: "how are you"},
		{Verb: types.VerbRealtime, Arg: "current weather"},
	})
	if got != "how are you and current weather" {
		t.Fatalf("merged query = %q", got)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	h := newHarness(t, "", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := h.orch.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v", err)
	}
}
