package dump

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jmallard/rollcall/pkg/chat"
	"github.com/jmallard/rollcall/pkg/identity"
)

// subjectRef decodes a subject identifier from any of the shapes a dump can
// contain: a bare number, a decimal string, or a wrapped object such as
// {"user_id": 123}. Unparseable values decode to the zero SubjectID rather
// than failing the line; a fragment without a subject is dropped later.
type subjectRef struct {
	id identity.SubjectID
}

// wrapped is the object form of an identifier reference.
type wrapped struct {
	UserID    json.RawMessage `json:"user_id"`
	ChannelID json.RawMessage `json:"channel_id"`
	ChatID    json.RawMessage `json:"chat_id"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *subjectRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.id = ""
		return nil
	}

	if data[0] == '{' {
		var w wrapped
		if err := json.Unmarshal(data, &w); err != nil {
			r.id = ""
			return nil
		}
		for _, inner := range [][]byte{w.UserID, w.ChannelID, w.ChatID} {
			if len(inner) > 0 {
				return r.UnmarshalJSON(inner)
			}
		}
		r.id = ""
		return nil
	}

	var id identity.SubjectID
	if err := id.UnmarshalJSON(data); err != nil {
		r.id = ""
		return nil
	}
	r.id = id
	return nil
}

// flexTime decodes either a unix-seconds number or an RFC 3339 string.
type flexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
		t.Time = parsed
		return nil
	}
	var unix int64
	if err := json.Unmarshal(data, &unix); err != nil {
		return nil
	}
	t.Time = time.Unix(unix, 0).UTC()
	return nil
}

// Line type tags understood by the reader.
const (
	typeMessage     = "message"
	typeMembership  = "membership"
	typeParticipant = "participant"
)

type header struct {
	Type string `json:"type"`
}

type messageLine struct {
	ID      int64        `json:"id"`
	Date    flexTime     `json:"date"`
	Sender  subjectRef   `json:"sender"`
	Text    string       `json:"text"`
	Forward *forwardLine `json:"forward"`
	Mention []subjectRef `json:"mentions"`
	Contact *contactLine `json:"contact"`
	ReplyTo int64        `json:"reply_to"`
	Out     bool         `json:"outgoing"`
}

type forwardLine struct {
	From subjectRef `json:"from"`
}

type contactLine struct {
	Subject   subjectRef `json:"subject"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
}

type membershipLine struct {
	ID      int64        `json:"id"`
	Date    flexTime     `json:"date"`
	Action  string       `json:"action"`
	Actor   subjectRef   `json:"actor"`
	Members []subjectRef `json:"members"`
}

type participantLine struct {
	Subject   subjectRef `json:"subject"`
	Kind      string     `json:"kind"`
	Handle    string     `json:"handle"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Bot       bool       `json:"bot"`
	Deleted   bool       `json:"deleted"`
}

// decodeEvent turns one dump line into an event. It returns false for
// unrecognized or malformed lines, which the reader skips.
func decodeEvent(line []byte) (chat.Event, bool) {
	var h header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, false
	}

	switch h.Type {
	case typeMessage:
		var m messageLine
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, false
		}
		return m.toEvent(), true
	case typeMembership:
		var c membershipLine
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, false
		}
		return c.toEvent(), true
	case typeParticipant:
		var p participantLine
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, false
		}
		return p.toEntry(), true
	default:
		return nil, false
	}
}

func (m *messageLine) toEvent() *chat.Message {
	msg := &chat.Message{
		ID:       m.ID,
		Date:     m.Date.Time,
		Sender:   m.Sender.id,
		Text:     m.Text,
		ReplyTo:  m.ReplyTo,
		Outgoing: m.Out,
	}
	if m.Forward != nil {
		msg.Forward = &chat.Forward{From: m.Forward.From.id}
	}
	for _, mention := range m.Mention {
		msg.Mentions = append(msg.Mentions, mention.id)
	}
	if m.Contact != nil {
		msg.Contact = &chat.Contact{
			Subject:   m.Contact.Subject.id,
			FirstName: m.Contact.FirstName,
			LastName:  m.Contact.LastName,
			Phone:     m.Contact.Phone,
		}
	}
	return msg
}

func (c *membershipLine) toEvent() *chat.MembershipChange {
	ev := &chat.MembershipChange{
		ID:     c.ID,
		Date:   c.Date.Time,
		Action: chat.Action(c.Action),
		Actor:  c.Actor.id,
	}
	for _, member := range c.Members {
		ev.Members = append(ev.Members, member.id)
	}
	return ev
}

func (p *participantLine) toEntry() *chat.ParticipantEntry {
	return &chat.ParticipantEntry{
		Subject:   p.Subject.id,
		Kind:      chat.EntityKind(p.Kind),
		Handle:    p.Handle,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Bot:       p.Bot,
		Deleted:   p.Deleted,
	}
}
