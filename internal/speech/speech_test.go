package speech

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestChannelRecognizerDeliversInOrder(t *testing.T) {
	r := NewChannelRecognizer()
	if !r.Submit("first") {
		t.Fatal("submit rejected")
	}
	if !r.Submit("second") {
		t.Fatal("submit rejected")
	}

	ctx := context.Background()
	got, err := r.Next(ctx)
	if err != nil || got != "first" {
		t.Fatalf("Next = %q, %v", got, err)
	}
	got, err = r.Next(ctx)
	if err != nil || got != "second" {
		t.Fatalf("Next = %q, %v", got, err)
	}
}

func TestChannelRecognizerDropsBlankInput(t *testing.T) {
	r := NewChannelRecognizer()
	if r.Submit("   ") {
		t.Fatal("blank utterance must be dropped at the source")
	}
	if r.Submit("") {
		t.Fatal("empty utterance must be dropped at the source")
	}
}

func TestChannelRecognizerNextHonorsCancellation(t *testing.T) {
	r := NewChannelRecognizer()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := r.Next(ctx); err == nil {
		t.Fatal("expected context error on empty recognizer")
	}
}

func TestChannelRecognizerTrimsWhitespace(t *testing.T) {
	r := NewChannelRecognizer()
	r.Submit("  open chrome  ")

	got, err := r.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "open chrome" {
		t.Fatalf("got %q", got)
	}
}

func TestSpokenFormShortAnswerUnchanged(t *testing.T) {
	text := "The capital of France is Paris."
	if got := SpokenForm(text); got != text {
		t.Fatalf("short answer must be unchanged, got %q", got)
	}
}

func TestSpokenFormLongAnswerTruncated(t *testing.T) {
	text := strings.Repeat("This is a fairly long explanatory sentence about nothing much at all. ", 6)
	got := SpokenForm(text)

	if len(got) >= len(text) {
		t.Fatalf("long answer was not truncated: %d chars", len(got))
	}
	if !strings.Contains(got, "chat screen") {
		t.Fatalf("truncated answer must point at the screen, got %q", got)
	}
}

func TestSpokenFormFewLongSentencesUnchanged(t *testing.T) {
	// Long in characters but only three sentences stays as is.
	text := strings.Repeat("word ", 60) + ". Second sentence. Third sentence."
	if got := SpokenForm(text); !strings.HasPrefix(got, "word") || strings.Contains(got, "chat screen") {
		t.Fatalf("three sentence answer must be unchanged, got %q", got)
	}
}

func TestNullSpeaker(t *testing.T) {
	if err := (NullSpeaker{}).Speak(context.Background(), "anything"); err != nil {
		t.Fatalf("NullSpeaker.Speak: %v", err)
	}
}
