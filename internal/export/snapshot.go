package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/identity"
)

// Snapshot is the persisted form of one run's reconciled participant
// directory. Participants arrive already sorted ascending by numeric
// subject id from Directory.Snapshot.
type Snapshot struct {
	RunID        string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Chat         string            `json:"chat,omitempty" yaml:"chat,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at" yaml:"generated_at"`
	Count        int               `json:"count" yaml:"count"`
	Participants []identity.Record `json:"participants" yaml:"participants"`
}

// NewSnapshot assembles a snapshot around the given records.
func NewSnapshot(runID, chatRef string, records []identity.Record) Snapshot {
	return Snapshot{
		RunID:        runID,
		Chat:         chatRef,
		GeneratedAt:  time.Now().UTC(),
		Count:        len(records),
		Participants: records,
	}
}

// WriteJSON writes the snapshot as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.WrapIO("write", "snapshot", err)
	}
	return nil
}

// WriteYAML writes the snapshot as YAML.
func (s Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() {
		_ = enc.Close()
	}()
	if err := enc.Encode(s); err != nil {
		return errors.WrapIO("write", "snapshot", err)
	}
	return nil
}

// ReadSnapshotJSON parses a snapshot previously written with WriteJSON.
func ReadSnapshotJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errors.WrapParse("json", "snapshot", err)
	}
	return s, nil
}
