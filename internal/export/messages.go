// Package export writes run artifacts: chat transcripts in JSON, YAML, or
// Markdown, and participant directory snapshots. Large identifiers are
// always emitted as decimal strings so they round-trip through every
// format.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jmallard/rollcall/pkg/chat"
	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/identity"
)

// MessageView is the interchange form of one exported message. Sender
// names come from the run's reconciled directory.
type MessageView struct {
	ID         int64              `json:"id" yaml:"id"`
	Date       time.Time          `json:"date" yaml:"date"`
	Sender     identity.SubjectID `json:"sender,omitempty" yaml:"sender,omitempty"`
	SenderName string             `json:"sender_name,omitempty" yaml:"sender_name,omitempty"`
	Text       string             `json:"text,omitempty" yaml:"text,omitempty"`
	ReplyTo    int64              `json:"reply_to,omitempty" yaml:"reply_to,omitempty"`
	Forwarded  bool               `json:"forwarded,omitempty" yaml:"forwarded,omitempty"`
	Outgoing   bool               `json:"outgoing,omitempty" yaml:"outgoing,omitempty"`
}

// Views converts messages to their interchange form, naming senders
// through the directory.
func Views(messages []*chat.Message, dir *identity.Directory) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		view := MessageView{
			ID:        m.ID,
			Date:      m.Date,
			Sender:    m.Sender,
			Text:      m.Text,
			ReplyTo:   m.ReplyTo,
			Forwarded: m.Forward != nil,
			Outgoing:  m.Outgoing,
		}
		if rec, ok := dir.Get(m.Sender); ok {
			view.SenderName = rec.DisplayName()
		}
		views = append(views, view)
	}
	return views
}

// WriteMessagesJSON writes the messages as a JSON array.
func WriteMessagesJSON(w io.Writer, views []MessageView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return errors.WrapIO("write", "messages", err)
	}
	return nil
}

// WriteMessagesYAML writes the messages as a YAML sequence.
func WriteMessagesYAML(w io.Writer, views []MessageView) error {
	enc := yaml.NewEncoder(w)
	defer func() {
		_ = enc.Close()
	}()
	if err := enc.Encode(views); err != nil {
		return errors.WrapIO("write", "messages", err)
	}
	return nil
}
