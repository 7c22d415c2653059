package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Darkweeb21/Friday/internal/config"
)

// Speaker voices an answer for the user.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// longAnswerSentences and longAnswerChars decide when an answer is read
// only partially aloud, with the full text left on screen.
const (
	longAnswerSentences = 4
	longAnswerChars     = 250
	spokenSentences     = 2
)

var screenNotices = []string{
	"The rest of the result has been printed to the chat screen, kindly check it out sir.",
	"The rest of the text is now on the chat screen, sir, please check it.",
	"You can see the rest of the text on the chat screen, sir.",
	"The remaining part of the text is now on the chat screen, sir.",
	"Sir, please check the chat screen for the rest of the text.",
}

// HTTPSpeaker synthesizes audio through an HTTP text to speech service
// and saves the result next to the other runtime files.
type HTTPSpeaker struct {
	baseURL    string
	voice      string
	rate       string
	audioPath  string
	httpClient *http.Client
}

// NewHTTPSpeaker builds a speaker from the loaded configuration.
func NewHTTPSpeaker() *HTTPSpeaker {
	return &HTTPSpeaker{
		baseURL:   config.AppConfig.TTSBaseURL,
		voice:     config.AppConfig.TTSVoice,
		rate:      config.AppConfig.TTSRate,
		audioPath: config.AppConfig.TTSAudioPath,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Speak synthesizes text and writes the audio file. Long answers are cut
// to their first sentences plus a notice pointing at the screen, so the
// voice never lags minutes behind the display.
func (s *HTTPSpeaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.synthesize(ctx, SpokenForm(text))
}

func (s *HTTPSpeaker) synthesize(ctx context.Context, text string) error {
	reqBody := map[string]interface{}{
		"audio": map[string]interface{}{
			"voice": s.voice,
			"rate":  s.rate,
		},
		"request": map[string]string{
			"text": text,
		},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.baseURL + "/voice/tts"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call TTS API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("TTS API error response: %s", string(respBody))
		return fmt.Errorf("TTS API returned status %d", resp.StatusCode)
	}

	var result struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Data == "" {
		return fmt.Errorf("no audio data in response")
	}

	audio, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return fmt.Errorf("failed to decode audio data: %w", err)
	}

	if err := os.WriteFile(s.audioPath, audio, 0644); err != nil {
		return fmt.Errorf("failed to save audio file: %w", err)
	}

	log.Printf("TTS audio saved to: %s", s.audioPath)
	return nil
}

// NullSpeaker is used when no TTS service is configured; answers stay
// on screen only.
type NullSpeaker struct{}

func (NullSpeaker) Speak(ctx context.Context, text string) error { return nil }

// SpokenForm returns the part of text that should be read aloud. Short
// answers come back unchanged. Long answers keep their leading sentences
// and gain a notice that the full text is on the chat screen.
func SpokenForm(text string) string {
	sentences := splitSentences(text)
	if len(sentences) <= longAnswerSentences || len(text) < longAnswerChars {
		return text
	}

	head := strings.Join(sentences[:spokenSentences], ". ")
	notice := screenNotices[rand.Intn(len(screenNotices))]
	return head + ". " + notice
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
