package chat

import (
	"slices"
	"time"

	"github.com/jmallard/rollcall/pkg/identity"
)

// Event is one record observed while iterating a chat. The variant set is
// closed: Message, MembershipChange, and ParticipantEntry.
type Event interface {
	// Fragments extracts the identity fragments this event yields.
	// An event with nothing to contribute returns an empty slice.
	Fragments() []identity.Fragment

	isEvent()
}

// Forward carries the origin of a forwarded message. Only forwards from an
// individual user carry a subject; forwards from channels arrive without
// one and yield no fragment.
type Forward struct {
	From identity.SubjectID `json:"from,omitempty"`
}

// Contact is a shared-contact attachment. The subject is the platform
// account the contact card points at, when the contact is a registered
// user.
type Contact struct {
	Subject   identity.SubjectID `json:"subject,omitempty"`
	FirstName string             `json:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty"`
	Phone     string             `json:"phone,omitempty"`
}

// Message is a regular chat message and everything it can reference.
type Message struct {
	ID       int64                `json:"id"`
	Date     time.Time            `json:"date"`
	Sender   identity.SubjectID   `json:"sender,omitempty"` // zero for anonymous posts
	Text     string               `json:"text,omitempty"`
	Forward  *Forward             `json:"forward,omitempty"`
	Mentions []identity.SubjectID `json:"mentions,omitempty"`
	Contact  *Contact             `json:"contact,omitempty"`
	ReplyTo  int64                `json:"reply_to,omitempty"`
	Outgoing bool                 `json:"outgoing,omitempty"`
}

func (m *Message) isEvent() {}

// Fragments implements Event. Anonymous posts (no sender) yield no author
// fragment. Reply references are never resolved: the replied-to message
// surfaces its own author when its turn in the iteration comes, so
// re-fetching it here would only cost an extra round trip.
func (m *Message) Fragments() []identity.Fragment {
	var frags []identity.Fragment

	if !m.Sender.IsZero() {
		frags = append(frags, identity.Fragment{
			Subject: m.Sender,
			Source:  identity.SourceAuthor,
		})
	}

	if m.Forward != nil && !m.Forward.From.IsZero() {
		frags = append(frags, identity.Fragment{
			Subject: m.Forward.From,
			Source:  identity.SourceForward,
		})
	}

	for _, mention := range m.Mentions {
		if mention.IsZero() {
			continue
		}
		frags = append(frags, identity.Fragment{
			Subject: mention,
			Source:  identity.SourceMention,
		})
	}

	if m.Contact != nil && !m.Contact.Subject.IsZero() {
		frags = append(frags, identity.Fragment{
			Subject:   m.Contact.Subject,
			FirstName: m.Contact.FirstName,
			LastName:  m.Contact.LastName,
			Phone:     m.Contact.Phone,
			Source:    identity.SourceContact,
		})
	}

	return frags
}

// Action describes what a membership-change notification did.
type Action string

// Known membership actions.
const (
	ActionJoin   Action = "join"   // joined via invite link or join request
	ActionAdd    Action = "add"    // added in bulk by another member
	ActionRemove Action = "remove" // removed or left
	ActionCreate Action = "create" // chat created with initial members
)

// Actions returns all known membership actions.
func Actions() []Action {
	return []Action{ActionJoin, ActionAdd, ActionRemove, ActionCreate}
}

// String returns the string representation of an action.
func (a Action) String() string {
	return string(a)
}

// IsValid returns true if the action is one of the defined constants.
func (a Action) IsValid() bool {
	return slices.Contains(Actions(), a)
}

// MembershipChange is a service notification about chat membership.
type MembershipChange struct {
	ID      int64                `json:"id"`
	Date    time.Time            `json:"date"`
	Action  Action               `json:"action"`
	Actor   identity.SubjectID   `json:"actor,omitempty"`   // who performed the action
	Members []identity.SubjectID `json:"members,omitempty"` // who it applied to
}

func (c *MembershipChange) isEvent() {}

// Fragments implements Event. Unrecognized actions yield nothing.
func (c *MembershipChange) Fragments() []identity.Fragment {
	switch c.Action {
	case ActionJoin:
		if c.Actor.IsZero() {
			return nil
		}
		return []identity.Fragment{{Subject: c.Actor, Source: identity.SourceJoin}}
	case ActionAdd:
		return c.memberFragments(identity.SourceAdd)
	case ActionRemove:
		return c.memberFragments(identity.SourceRemove)
	case ActionCreate:
		return c.memberFragments(identity.SourceCreate)
	default:
		return nil
	}
}

func (c *MembershipChange) memberFragments(source identity.Source) []identity.Fragment {
	var frags []identity.Fragment
	for _, member := range c.Members {
		if member.IsZero() {
			continue
		}
		frags = append(frags, identity.Fragment{Subject: member, Source: source})
	}
	return frags
}

// EntityKind distinguishes the entity behind a participant listing entry.
type EntityKind string

// Known entity kinds.
const (
	KindUser    EntityKind = "user"
	KindGroup   EntityKind = "group"
	KindChannel EntityKind = "channel"
)

// ParticipantEntry is one row of a directory listing. It carries the
// richest identity fields available for a participant.
type ParticipantEntry struct {
	Subject   identity.SubjectID `json:"subject"`
	Kind      EntityKind         `json:"kind,omitempty"` // empty means user
	Handle    string             `json:"handle,omitempty"`
	FirstName string             `json:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	Bot       bool               `json:"bot,omitempty"`
	Deleted   bool               `json:"deleted,omitempty"`
}

func (p *ParticipantEntry) isEvent() {}

// Fragments implements Event. Entries backed by a group or channel rather
// than an individual are skipped.
func (p *ParticipantEntry) Fragments() []identity.Fragment {
	if p.Kind == KindGroup || p.Kind == KindChannel {
		return nil
	}
	if p.Subject.IsZero() {
		return nil
	}
	return []identity.Fragment{{
		Subject:   p.Subject,
		Handle:    p.Handle,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Bot:       p.Bot,
		Deleted:   p.Deleted,
		Source:    identity.SourceParticipant,
	}}
}

// Extract returns the fragments an event yields. A nil event yields
// nothing.
func Extract(ev Event) []identity.Fragment {
	if ev == nil {
		return nil
	}
	return ev.Fragments()
}
