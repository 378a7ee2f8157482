package identity

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/jmallard/rollcall/pkg/logging"
)

// Directory is the in-memory mapping from subject identifier to merged
// record for one run. It carries no state between runs and has a single
// writer during ingestion.
type Directory struct {
	records map[SubjectID]*Record
	counts  map[Source]int
	logger  *zerolog.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the logger used for ingestion diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory creates an empty directory.
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		records: make(map[SubjectID]*Record),
		counts:  make(map[Source]int),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fold applies one fragment to the directory and reports whether it
// introduced a previously-unseen subject. Fragments without a subject
// identifier are dropped silently; malformed input never aborts a run.
func (d *Directory) Fold(f Fragment) bool {
	if f.Subject.IsZero() {
		d.logger.Debug().Str("source", f.Source.String()).Msg("Dropping fragment without subject")
		return false
	}
	d.counts[f.Source]++

	rec, ok := d.records[f.Subject]
	if !ok {
		rec = &Record{Subject: f.Subject}
		rec.apply(f)
		d.records[f.Subject] = rec
		return true
	}
	rec.apply(f)
	return false
}

// FoldAll applies a batch of fragments and returns how many introduced a
// previously-unseen subject.
func (d *Directory) FoldAll(fragments []Fragment) int {
	fresh := 0
	for _, f := range fragments {
		if d.Fold(f) {
			fresh++
		}
	}
	return fresh
}

// Len returns the number of distinct subjects in the directory.
func (d *Directory) Len() int {
	return len(d.records)
}

// Get returns a copy of the record for a subject.
func (d *Directory) Get(id SubjectID) (Record, bool) {
	rec, ok := d.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Counts returns per-source fragment counters, for diagnostics.
func (d *Directory) Counts() map[Source]int {
	out := make(map[Source]int, len(d.counts))
	for s, n := range d.counts {
		out[s] = n
	}
	return out
}

// Bare returns the subjects whose record still lacks a handle and both name
// fields, in ascending numeric order so the resolution pass is
// deterministic.
func (d *Directory) Bare() []SubjectID {
	var ids []SubjectID
	for id, rec := range d.records {
		if rec.Bare() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Cmp(ids[j]) < 0 })
	return ids
}

// Snapshot returns the merged directory as a sequence of records sorted
// ascending by numeric subject identifier. The snapshot is a copy; the
// directory can keep ingesting afterwards.
func (d *Directory) Snapshot() []Record {
	out := make([]Record, 0, len(d.records))
	for _, rec := range d.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject.Cmp(out[j].Subject) < 0 })
	return out
}
