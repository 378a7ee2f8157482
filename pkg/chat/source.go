package chat

import (
	"context"

	"github.com/jmallard/rollcall/pkg/identity"
)

// EventSource streams the events of one chat in order. The stream is
// finite, strictly sequential, and not restartable mid-run; exhaustion is a
// normal terminal condition, not an error. A limit of 0 means no limit.
type EventSource interface {
	ForEachEvent(ctx context.Context, chat string, limit int, fn func(Event) error) error
}

// ParticipantSource streams the directory listing of one chat.
type ParticipantSource interface {
	ForEachParticipant(ctx context.Context, chat string, limit int, fn func(ParticipantEntry) error) error
}

// Ingest folds every fragment of every event from src into the directory.
// Each event is fully processed before the next is read. It returns the
// number of previously-unseen subjects.
func Ingest(ctx context.Context, dir *identity.Directory, src EventSource, chat string, limit int) (int, error) {
	fresh := 0
	err := src.ForEachEvent(ctx, chat, limit, func(ev Event) error {
		fresh += dir.FoldAll(Extract(ev))
		return nil
	})
	return fresh, err
}

// IngestParticipants folds every participant listing entry from src into
// the directory.
func IngestParticipants(ctx context.Context, dir *identity.Directory, src ParticipantSource, chat string, limit int) (int, error) {
	fresh := 0
	err := src.ForEachParticipant(ctx, chat, limit, func(entry ParticipantEntry) error {
		fresh += dir.FoldAll(entry.Fragments())
		return nil
	})
	return fresh, err
}
