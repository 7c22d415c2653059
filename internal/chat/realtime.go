package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Darkweeb21/Friday/internal/session"
	"github.com/Darkweeb21/Friday/internal/websearch"
	"github.com/Darkweeb21/Friday/pkg/types"
)

// resultLinkCount is how many search links are injected as answer context.
const resultLinkCount = 5

// RealtimeEngine answers queries that need up-to-date information by
// injecting live search results into the model context.
type RealtimeEngine struct {
	llm           LLM
	searcher      websearch.Searcher
	username      string
	assistantName string
	contextSize   int
}

// NewRealtimeEngine creates the realtime-answer collaborator.
func NewRealtimeEngine(llm LLM, searcher websearch.Searcher, username, assistantName string, contextSize int) *RealtimeEngine {
	if contextSize <= 0 {
		contextSize = 10
	}
	return &RealtimeEngine{
		llm:           llm,
		searcher:      searcher,
		username:      username,
		assistantName: assistantName,
		contextSize:   contextSize,
	}
}

func (r *RealtimeEngine) persona() string {
	return fmt.Sprintf(`You are %s, a helpful AI friend of %s with access to real-time internet information.
- Give the key information upfront and keep it short by default.
- Base time-sensitive answers on the provided search results and share sources for facts.
- Admit when you are not sure.`, r.assistantName, r.username)
}

// searchContext renders the result links as a bracketed block the model can
// cite from.
func searchContext(query string, links []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The search results for %q are:\n[start]\n", query)
	for _, link := range links {
		fmt.Fprintf(&b, "URL: %s\n", link)
	}
	b.WriteString("[end]")
	return b.String()
}

// Answer searches the web for the query, sends the results plus the recent
// transcript to the model, appends both turns to the transcript and returns
// the cleaned answer. A failed search degrades to answering without the
// context block rather than failing the cycle.
func (r *RealtimeEngine) Answer(ctx context.Context, query string, history *session.History) (string, error) {
	log.Printf("Realtime query: %s", query)

	history.Append(types.RoleUser, query)

	messages := []types.Message{
		{Role: types.RoleSystem, Content: r.persona()},
	}

	links, err := r.searcher.Links(ctx, query, resultLinkCount)
	if err != nil {
		log.Printf("Web search failed, answering without context: %v", err)
	} else {
		messages = append(messages, types.Message{Role: types.RoleSystem, Content: searchContext(query, links)})
	}

	messages = append(messages, types.Message{Role: types.RoleSystem, Content: timeContext(time.Now())})
	messages = append(messages, history.Tail(r.contextSize)...)

	answer, err := r.llm.ChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("realtime completion failed: %w", err)
	}

	answer = ModifyAnswer(answer)
	history.Append(types.RoleAssistant, answer)
	return answer, nil
}
