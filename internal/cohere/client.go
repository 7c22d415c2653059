// Package cohere is the HTTP client for the Cohere chat API, used by the
// decision-making model to classify utterances.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Darkweeb21/Friday/internal/config"
)

// Turn is one few-shot history entry in Cohere's chat format.
type Turn struct {
	Role    string `json:"role"` // "USER" or "CHATBOT"
	Message string `json:"message"`
}

// Cohere history roles.
const (
	RoleUser    = "USER"
	RoleChatbot = "CHATBOT"
)

// Client is the Cohere API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	temp       float64
	httpClient *http.Client
}

// NewClient creates a new Cohere API client from the loaded configuration.
func NewClient() *Client {
	return &Client{
		apiKey:  config.AppConfig.CohereAPIKey,
		baseURL: config.AppConfig.CohereBaseURL,
		model:   config.AppConfig.CohereModel,
		temp:    config.AppConfig.CohereTemperature,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Chat sends one message with a preamble and few-shot history and returns
// the model's text reply.
func (c *Client) Chat(ctx context.Context, message, preamble string, history []Turn) (string, error) {
	log.Printf("Starting Cohere chat with %d history turns", len(history))

	reqBody := map[string]interface{}{
		"model":             c.model,
		"message":           message,
		"temperature":       c.temp,
		"chat_history":      history,
		"prompt_truncation": "OFF",
		"preamble":          preamble,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Cohere API error response: %s", string(respBody))
		return "", fmt.Errorf("cohere API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	log.Printf("Cohere chat reply: %s", result.Text)
	return result.Text, nil
}
