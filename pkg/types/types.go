package types

// Verb is one entry of the fixed command vocabulary the decision model is
// allowed to emit. Anything outside this set is classifier drift and gets
// dropped before dispatch.
type Verb string

const (
	VerbGeneral       Verb = "general"
	VerbRealtime      Verb = "realtime"
	VerbOpen          Verb = "open"
	VerbClose         Verb = "close"
	VerbPlay          Verb = "play"
	VerbGenerateImage Verb = "generate image"
	VerbSystem        Verb = "system"
	VerbContent       Verb = "content"
	VerbGoogleSearch  Verb = "google search"
	VerbYoutubeSearch Verb = "youtube search"
	VerbReminder      Verb = "reminder"
	VerbExit          Verb = "exit"
)

// Vocabulary lists every accepted verb, longest first so prefix matching
// never confuses "generate image" with "general".
var Vocabulary = []Verb{
	VerbGenerateImage,
	VerbYoutubeSearch,
	VerbGoogleSearch,
	VerbRealtime,
	VerbReminder,
	VerbGeneral,
	VerbContent,
	VerbSystem,
	VerbClose,
	VerbOpen,
	VerbPlay,
	VerbExit,
}

// Intent is one parsed classifier fragment: a verb from the fixed
// vocabulary plus the trimmed remainder of the fragment.
type Intent struct {
	Verb Verb   `json:"verb"`
	Arg  string `json:"arg"`
}

// IsConversational reports whether the intent is answered with text rather
// than dispatched to automation.
func (i Intent) IsConversational() bool {
	return i.Verb == VerbGeneral || i.Verb == VerbRealtime
}

// IsAutomation reports whether the intent is executed by the automation
// dispatcher.
func (i Intent) IsAutomation() bool {
	switch i.Verb {
	case VerbOpen, VerbClose, VerbPlay, VerbContent, VerbGoogleSearch, VerbYoutubeSearch, VerbSystem:
		return true
	}
	return false
}

// ExecutionResult is the outcome of one dispatched automation command. It
// lives for the duration of a single dispatch cycle and is not persisted.
type ExecutionResult struct {
	Intent  Intent `json:"intent"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Transcript message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one role-tagged transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant status values shown on the display surface. Overwritten on
// every transition, last write wins; the text is advisory only.
const (
	StatusInitializing = "Initializing..."
	StatusListening    = "Listening..."
	StatusThinking     = "Thinking..."
	StatusSearching    = "Searching..."
	StatusAnswering    = "Answering..."
	StatusAvailable    = "Available..."
	StatusReady        = "Ready..."
)
