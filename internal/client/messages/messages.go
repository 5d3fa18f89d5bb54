// Package messages is the user-facing message channel. Any layer reports
// through an injected Sink; nothing in the client writes to the terminal
// directly.
package messages

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Message struct {
	Kind Kind
	Text string
}

// Sink receives messages. Implementations must not block the caller for long
// and must not report failures back.
type Sink interface {
	AddMessage(kind Kind, text string)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(kind Kind, text string)

func (f SinkFunc) AddMessage(kind Kind, text string) {
	if f != nil {
		f(kind, text)
	}
}

// Queue buffers messages until the front-end drains them, the way a toast
// area collects notifications between renders.
type Queue struct {
	mu   sync.Mutex
	msgs []Message
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) AddMessage(kind Kind, text string) {
	q.mu.Lock()
	q.msgs = append(q.msgs, Message{Kind: kind, Text: text})
	q.mu.Unlock()
}

// Drain returns the buffered messages in arrival order and empties the queue.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.msgs
	q.msgs = nil
	return out
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Render formats m for a terminal.
func Render(m Message) string {
	switch m.Kind {
	case KindSuccess:
		return successStyle.Render("✔ " + m.Text)
	case KindError:
		return errorStyle.Render("✖ " + m.Text)
	default:
		return infoStyle.Render("• " + m.Text)
	}
}

// Flush renders and writes every queued message to w.
func (q *Queue) Flush(w io.Writer) {
	for _, m := range q.Drain() {
		fmt.Fprintln(w, Render(m))
	}
}
