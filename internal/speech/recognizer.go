package speech

import (
	"context"
	"strings"
)

// Recognizer delivers recognized user utterances one at a time. Next
// blocks until an utterance arrives or the context is cancelled.
type Recognizer interface {
	Next(ctx context.Context) (string, error)
}

// ChannelRecognizer is a Recognizer fed in-process. The HTTP text
// endpoint and the websocket speech feed both push into it.
type ChannelRecognizer struct {
	utterances chan string
}

// NewChannelRecognizer creates a recognizer with a small buffer so a
// push during an active cycle is not dropped.
func NewChannelRecognizer() *ChannelRecognizer {
	return &ChannelRecognizer{utterances: make(chan string, 8)}
}

// Submit queues an utterance for the next cycle. Blank input is dropped
// at the source. Returns false when the queue is full.
func (r *ChannelRecognizer) Submit(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	select {
	case r.utterances <- text:
		return true
	default:
		return false
	}
}

// Next blocks until an utterance is available.
func (r *ChannelRecognizer) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text := <-r.utterances:
		return text, nil
	}
}
