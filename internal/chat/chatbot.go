// Package chat holds the conversational collaborators: the persona chatbot
// and the realtime search-informed engine, plus the query/answer text
// normalizers shared with the orchestrator.
package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Darkweeb21/Friday/internal/session"
	"github.com/Darkweeb21/Friday/pkg/types"
)

// LLM is the boundary to the hosted chat-completion collaborator.
type LLM interface {
	ChatCompletion(ctx context.Context, messages []types.Message) (string, error)
}

// Chatbot answers plain conversational queries with the assistant persona.
type Chatbot struct {
	llm           LLM
	username      string
	assistantName string
	contextSize   int
}

// NewChatbot creates the conversational collaborator.
func NewChatbot(llm LLM, username, assistantName string, contextSize int) *Chatbot {
	if contextSize <= 0 {
		contextSize = 10
	}
	return &Chatbot{
		llm:           llm,
		username:      username,
		assistantName: assistantName,
		contextSize:   contextSize,
	}
}

func (c *Chatbot) persona() string {
	return fmt.Sprintf(`You are %s, an AI assistant focused on providing knowledgeable, reliable and efficient support to %s.
- Communicate naturally and adapt your tone to the context of the interaction.
- Use clear, precise language while avoiding unnecessary formality.
- Acknowledge uncertainty when appropriate and provide balanced perspectives.
- Keep answers brief unless the user asks you to elaborate.`, c.assistantName, c.username)
}

// Reply sends the query with the persona, the current time context and the
// recent transcript to the model, appends both turns to the transcript and
// returns the cleaned answer.
func (c *Chatbot) Reply(ctx context.Context, query string, history *session.History) (string, error) {
	log.Printf("Chatbot query: %s", query)

	history.Append(types.RoleUser, query)

	messages := []types.Message{
		{Role: types.RoleSystem, Content: c.persona()},
		{Role: types.RoleSystem, Content: timeContext(time.Now())},
	}
	messages = append(messages, history.Tail(c.contextSize)...)

	answer, err := c.llm.ChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chatbot completion failed: %w", err)
	}

	answer = ModifyAnswer(answer)
	history.Append(types.RoleAssistant, answer)
	return answer, nil
}
