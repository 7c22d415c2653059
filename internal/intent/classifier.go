// Package intent holds the decision layer: the adapter around the external
// classification model and the grammar that turns its output into commands.
package intent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Darkweeb21/Friday/internal/cohere"
)

// DecisionService is the boundary to the external classification
// collaborator.
type DecisionService interface {
	Chat(ctx context.Context, message, preamble string, history []cohere.Turn) (string, error)
}

// preamble constrains the decision model to the fixed intent grammar. The
// model must never answer a query, only label it.
const preamble = `You are a very accurate Decision-Making Model, which decides what kind of a query is given to you.
You will decide whether a query is a 'general' query, a 'realtime' query, or is asking to perform any task or automation like 'open facebook, instagram', 'can you write a application and open it in notepad'.
*** Do not answer any query, just decide what kind of query is given to you. ***
-> Respond with 'general (query)' if a query can be answered by a llm model (conversational ai chatbot) and doesn't require any up to date information, like 'general who was akbar?', 'general thanks, i really liked it.'.
-> Respond with 'general (query)' if a query doesn't have a proper noun or is incomplete, like 'general who is he?', or if it asks about time, day, date, month or year.
-> Respond with 'realtime (query)' if a query can not be answered by a llm model because it requires up to date information, like 'realtime who is indian prime minister', 'realtime tell me news about coronavirus.'.
-> Respond with 'open (application name or website name)' if a query is asking to open any application or website.
-> Respond with 'close (application name)' if a query is asking to close any application.
-> Respond with 'play (song name)' if a query is asking to play any song.
-> Respond with 'generate image (image prompt)' if a query is requesting to generate an image.
-> Respond with 'reminder (datetime with message)' if a query is requesting to set a reminder.
-> Respond with 'system (task name)' if a query is asking to mute, unmute, volume up, volume down.
-> Respond with 'content (topic)' if a query is asking to write any type of content.
-> Respond with 'google search (topic)' if a query is asking to search on google.
-> Respond with 'youtube search (topic)' if a query is asking to search on youtube.
*** If the query is asking to perform multiple tasks like 'open facebook, telegram and close whatsapp' respond with 'open facebook, open telegram, close whatsapp'. ***
*** If the user is saying goodbye or wants to end the conversation, respond with 'exit'. ***
*** Respond with 'general (query)' if you can't decide the kind of query or if a query is asking to perform a task which is not mentioned above. ***`

// seedHistory is the fixed few-shot history sent with every classification
// call; accepted turns are appended after it.
var seedHistory = []cohere.Turn{
	{Role: cohere.RoleUser, Message: "how are you?"},
	{Role: cohere.RoleChatbot, Message: "general how are you?"},
	{Role: cohere.RoleUser, Message: "do you like pizza?"},
	{Role: cohere.RoleChatbot, Message: "general do you like pizza?"},
	{Role: cohere.RoleUser, Message: "open chrome and tell me about mahatma gandhi?"},
	{Role: cohere.RoleChatbot, Message: "open chrome, general tell me about mahatma gandhi"},
	{Role: cohere.RoleUser, Message: "open chrome and firefox"},
	{Role: cohere.RoleChatbot, Message: "open chrome, open firefox"},
	{Role: cohere.RoleUser, Message: "what is today's date and by the way remind me that i have a dancing performance on 5th aug at 11pm"},
	{Role: cohere.RoleChatbot, Message: "general what is today's date, reminder 11:00pm 5th aug dancing performance"},
}

// placeholderMarker flags an unfilled template slot in the model's output.
const placeholderMarker = "(query)"

// rolling turns kept after the seed so the request stays bounded
const maxRollingTurns = 20

// Classifier maps one utterance to an ordered list of intent strings by way
// of the external decision model.
type Classifier struct {
	svc         DecisionService
	maxAttempts int

	mu      sync.Mutex
	rolling []cohere.Turn
}

// NewClassifier creates a classifier around the decision service.
// maxAttempts bounds the retry on placeholder output; values below 1 are
// treated as 1.
func NewClassifier(svc DecisionService, maxAttempts int) *Classifier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Classifier{svc: svc, maxAttempts: maxAttempts}
}

// Classify sends the utterance plus the seed and rolling history to the
// decision model and returns the surviving intent strings in model order.
// Fragments whose verb is outside the fixed vocabulary are dropped. If any
// surviving fragment still contains the literal "(query)" placeholder the
// call is retried with the same utterance, a bounded number of times.
//
// On acceptance the (utterance, joined response) turn is appended to the
// rolling history used by subsequent calls.
func (c *Classifier) Classify(ctx context.Context, utterance string) ([]string, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, fmt.Errorf("utterance is empty")
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err := c.svc.Chat(ctx, utterance, preamble, c.historyForRequest())
		if err != nil {
			return nil, fmt.Errorf("decision model call failed: %w", err)
		}

		fragments := filterFragments(raw)
		if len(fragments) == 0 {
			log.Printf("Classifier returned no usable fragments (attempt %d): %q", attempt, raw)
			continue
		}

		joined := strings.Join(fragments, ", ")
		if strings.Contains(joined, placeholderMarker) {
			log.Printf("Classifier returned placeholder output (attempt %d): %q", attempt, joined)
			continue
		}

		c.appendTurn(utterance, joined)
		return fragments, nil
	}

	return nil, fmt.Errorf("decision model produced no usable output after %d attempts", c.maxAttempts)
}

// filterFragments splits the raw model response on commas and keeps only
// fragments that start with an accepted verb.
func filterFragments(raw string) []string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	var out []string
	for _, part := range strings.Split(cleaned, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if MatchesVocabulary(part) {
			out = append(out, part)
		}
	}
	return out
}

func (c *Classifier) historyForRequest() []cohere.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := make([]cohere.Turn, 0, len(seedHistory)+len(c.rolling))
	history = append(history, seedHistory...)
	history = append(history, c.rolling...)
	return history
}

func (c *Classifier) appendTurn(utterance, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolling = append(c.rolling,
		cohere.Turn{Role: cohere.RoleUser, Message: utterance},
		cohere.Turn{Role: cohere.RoleChatbot, Message: response},
	)
	if len(c.rolling) > maxRollingTurns {
		c.rolling = c.rolling[len(c.rolling)-maxRollingTurns:]
	}
}
