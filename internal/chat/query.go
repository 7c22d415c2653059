package chat

import (
	"fmt"
	"strings"
	"time"
)

var questionWords = []string{
	"how", "what", "where", "when", "which", "why", "whose", "whom", "who",
	"can you", "what's", "where's", "how's",
}

// ModifyQuery normalizes an utterance before it is sent downstream:
// lower-cases it, appends a question mark when it reads like a question and
// a period otherwise, and capitalizes the first letter.
func ModifyQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}

	isQuestion := false
	for _, word := range questionWords {
		if strings.Contains(q, word) {
			isQuestion = true
			break
		}
	}

	q = strings.TrimRight(q, ".?!,")
	if isQuestion {
		q += "?"
	} else {
		q += "."
	}

	return strings.ToUpper(q[:1]) + q[1:]
}

// ModifyAnswer strips blank lines and surrounding whitespace from a model
// answer before it is displayed or spoken.
func ModifyAnswer(answer string) string {
	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// timeContext renders the current date and time as an injected system
// message so the model can answer time-sensitive phrasing.
func timeContext(now time.Time) string {
	return fmt.Sprintf(
		"Use this real-time information if needed:\nDay: %s\nDate: %s\nMonth: %s\nYear: %s\nTime: %s",
		now.Format("Monday"),
		now.Format("02"),
		now.Format("January"),
		now.Format("2006"),
		now.Format("15:04:05"),
	)
}
