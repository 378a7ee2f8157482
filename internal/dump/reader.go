// Package dump reads chat events and participant listings from JSONL dump
// files captured ahead of time. One dump file holds one chat, one JSON
// object per line, each tagged with a "type" of message, membership, or
// participant. Malformed and unrecognized lines are skipped, never fatal,
// and a truncated file simply ends the stream early.
package dump

import (
	"bufio"
	"bytes"
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/jmallard/rollcall/pkg/chat"
	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/logging"
)

// maxLineSize bounds one dump line. Long messages stay well under this.
const maxLineSize = 1 << 20

// Reader streams events from one dump file. It implements chat.EventSource
// and chat.ParticipantSource.
type Reader struct {
	path   string
	logger *zerolog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the reader logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a reader over the dump file at path.
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{
		path:   path,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForEachEvent implements chat.EventSource. The chat argument is ignored:
// a dump file is a single chat's capture.
func (r *Reader) ForEachEvent(ctx context.Context, _ string, limit int, fn func(chat.Event) error) error {
	return r.scan(ctx, limit, func(ev chat.Event) (bool, error) {
		return true, fn(ev)
	})
}

// ForEachParticipant implements chat.ParticipantSource. Lines of other
// types are passed over without counting against the limit.
func (r *Reader) ForEachParticipant(ctx context.Context, _ string, limit int, fn func(chat.ParticipantEntry) error) error {
	return r.scan(ctx, limit, func(ev chat.Event) (bool, error) {
		entry, ok := ev.(*chat.ParticipantEntry)
		if !ok {
			return false, nil
		}
		return true, fn(*entry)
	})
}

// scan walks the file line by line. fn reports whether the event counted
// against the limit. Scanner failures (oversized or truncated input) end
// the stream gracefully: whatever was ingested so far stands.
func (r *Reader) scan(ctx context.Context, limit int, fn func(chat.Event) (bool, error)) error {
	f, err := os.Open(r.path)
	if err != nil {
		return errors.WrapIO("open", r.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	seen, skipped, lineNo := 0, 0, 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && seen >= limit {
			break
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, ok := decodeEvent(line)
		if !ok {
			skipped++
			r.logger.Debug().Str("file", r.path).Int("line", lineNo).Msg("Skipping undecodable dump line")
			continue
		}

		counted, err := fn(ev)
		if err != nil {
			return err
		}
		if counted {
			seen++
		}
	}

	if err := scanner.Err(); err != nil {
		// Treated as end-of-input; partial ingestion is a valid result.
		r.logger.Warn().Str("file", r.path).Int("line", lineNo).Err(err).Msg("Dump ended early")
	}
	if skipped > 0 {
		r.logger.Debug().Str("file", r.path).Int("skipped", skipped).Msg("Skipped undecodable dump lines")
	}
	return nil
}
