package journal

import (
	"strings"
	"time"
)

// Entry is one journaled topic.
type Entry struct {
	ID      string            `json:"id"`
	Date    time.Time         `json:"date"`
	Title   string            `json:"title"`
	Source  string            `json:"source"`
	Answers map[string]string `json:"answers"`
}

// Answer returns the trimmed answer to question id.
func (e Entry) Answer(id string) string {
	return strings.TrimSpace(e.Answers[id])
}

// Filled returns the number of questions with a non-blank answer.
func (e Entry) Filled() int {
	n := 0
	for _, q := range questions {
		if e.Answer(q.ID) != "" {
			n++
		}
	}
	return n
}

// Draft carries user input for creating or editing an entry.
type Draft struct {
	Title   string
	Source  string
	Answers map[string]string
}
