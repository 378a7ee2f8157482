package dump

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallard/rollcall/pkg/chat"
	"github.com/jmallard/rollcall/pkg/identity"
)

func writeDump(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collect(t *testing.T, r *Reader, limit int) []chat.Event {
	t.Helper()
	var events []chat.Event
	err := r.ForEachEvent(context.Background(), "", limit, func(ev chat.Event) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	return events
}

func TestReaderDecodesMessages(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"date":1700000000,"sender":101,"text":"hello"}`,
		`{"type":"message","id":2,"date":"2023-11-14T22:13:20Z","sender":{"user_id":12345678901234567},"text":"big id"}`,
		`{"type":"message","id":3,"sender":"303","reply_to":1,"outgoing":true}`,
	)
	events := collect(t, NewReader(path), 0)
	require.Len(t, events, 3)

	m1, ok := events[0].(*chat.Message)
	require.True(t, ok)
	assert.Equal(t, int64(1), m1.ID)
	assert.Equal(t, identity.SubjectIDFromInt64(101), m1.Sender)
	assert.Equal(t, "hello", m1.Text)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), m1.Date)

	// Wrapped object form with an id past 2^53 keeps full precision.
	m2 := events[1].(*chat.Message)
	assert.Equal(t, "12345678901234567", m2.Sender.String())
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), m2.Date)

	m3 := events[2].(*chat.Message)
	assert.Equal(t, "303", m3.Sender.String())
	assert.Equal(t, int64(1), m3.ReplyTo)
	assert.True(t, m3.Outgoing)
}

func TestReaderDecodesForwardMentionContact(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101,"forward":{"from":202},"mentions":[303,{"user_id":404}],"contact":{"subject":505,"first_name":"Carol","phone":"+15550123"}}`,
	)
	events := collect(t, NewReader(path), 0)
	require.Len(t, events, 1)

	m := events[0].(*chat.Message)
	require.NotNil(t, m.Forward)
	assert.Equal(t, identity.SubjectIDFromInt64(202), m.Forward.From)
	require.Len(t, m.Mentions, 2)
	assert.Equal(t, identity.SubjectIDFromInt64(404), m.Mentions[1])
	require.NotNil(t, m.Contact)
	assert.Equal(t, "Carol", m.Contact.FirstName)
	assert.Equal(t, "+15550123", m.Contact.Phone)
}

func TestReaderDecodesMembership(t *testing.T) {
	path := writeDump(t,
		`{"type":"membership","id":1,"action":"join","actor":101}`,
		`{"type":"membership","id":2,"action":"add","actor":101,"members":[202,303]}`,
	)
	events := collect(t, NewReader(path), 0)
	require.Len(t, events, 2)

	join := events[0].(*chat.MembershipChange)
	assert.Equal(t, chat.ActionJoin, join.Action)
	assert.Equal(t, identity.SubjectIDFromInt64(101), join.Actor)

	add := events[1].(*chat.MembershipChange)
	assert.Equal(t, chat.ActionAdd, add.Action)
	require.Len(t, add.Members, 2)
}

func TestReaderSkipsJunk(t *testing.T) {
	path := writeDump(t,
		``,
		`not json at all`,
		`{"type":"sticker_set","name":"odd"}`,
		`{"type":"message","id":7,"sender":101}`,
		`{"type":"message","id":`, // truncated
	)
	events := collect(t, NewReader(path), 0)
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].(*chat.Message).ID)
}

func TestReaderUnparseableSenderYieldsAnonymous(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":{"weird":true},"text":"who"}`,
	)
	events := collect(t, NewReader(path), 0)
	require.Len(t, events, 1)
	assert.True(t, events[0].(*chat.Message).Sender.IsZero())
}

func TestReaderLimit(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101}`,
		`{"type":"message","id":2,"sender":202}`,
		`{"type":"message","id":3,"sender":303}`,
	)
	events := collect(t, NewReader(path), 2)
	assert.Len(t, events, 2)
}

func TestReaderForEachParticipant(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101}`,
		`{"type":"participant","subject":101,"handle":"alice","first_name":"Alice","last_name":"Smith"}`,
		`{"type":"participant","subject":-200,"kind":"group","handle":"linked"}`,
		`{"type":"participant","subject":202,"bot":true,"deleted":true}`,
	)

	var entries []chat.ParticipantEntry
	err := NewReader(path).ForEachParticipant(context.Background(), "", 0, func(e chat.ParticipantEntry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)

	// Messages do not count against participant iteration.
	require.Len(t, entries, 3)
	assert.Equal(t, "alice", entries[0].Handle)
	assert.Equal(t, chat.KindGroup, entries[1].Kind)
	assert.True(t, entries[2].Bot)
	assert.True(t, entries[2].Deleted)
}

func TestReaderParticipantLimitCountsOnlyParticipants(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101}`,
		`{"type":"participant","subject":201}`,
		`{"type":"message","id":2,"sender":102}`,
		`{"type":"participant","subject":202}`,
		`{"type":"participant","subject":203}`,
	)

	var entries []chat.ParticipantEntry
	err := NewReader(path).ForEachParticipant(context.Background(), "", 2, func(e chat.ParticipantEntry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReaderCancellation(t *testing.T) {
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101}`,
		`{"type":"message","id":2,"sender":202}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewReader(path).ForEachEvent(ctx, "", 0, func(chat.Event) error {
		t.Fatal("callback must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderMissingFile(t *testing.T) {
	err := NewReader(filepath.Join(t.TempDir(), "absent.jsonl")).
		ForEachEvent(context.Background(), "", 0, func(chat.Event) error { return nil })
	assert.Error(t, err)
}

func TestIngestFromDump(t *testing.T) {
	// End to end: dump lines through the reader into a reconciled directory.
	path := writeDump(t,
		`{"type":"message","id":1,"sender":101,"text":"hi"}`,
		`{"type":"membership","id":2,"action":"remove","members":[909]}`,
		`{"type":"participant","subject":101,"handle":"alice","first_name":"Alice"}`,
	)

	dir := identity.NewDirectory()
	fresh, err := chat.Ingest(context.Background(), dir, NewReader(path), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh) // the participant line enriches an already-seen subject

	alice, ok := dir.Get(identity.SubjectIDFromInt64(101))
	require.True(t, ok)
	assert.Equal(t, "alice", alice.Handle)

	ghost, ok := dir.Get(identity.SubjectIDFromInt64(909))
	require.True(t, ok)
	assert.True(t, ghost.Bare())
}
