package identity

import "strings"

// Record is the merged canonical view of one participant, keyed by subject
// identifier. Exactly one Record exists per distinct SubjectID in a
// directory.
type Record struct {
	Subject   SubjectID `json:"id" yaml:"id"`
	Handle    string    `json:"handle,omitempty" yaml:"handle,omitempty"`
	FirstName string    `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Bot       bool      `json:"bot,omitempty" yaml:"bot,omitempty"`
	Deleted   bool      `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// apply folds one fragment into the record. String fields fill only when
// still missing, so a later fragment can never null out or replace an
// observed value. Flags OR together. The operation is idempotent and
// commutative per field.
func (r *Record) apply(f Fragment) {
	if r.Handle == "" {
		r.Handle = f.Handle
	}
	if r.FirstName == "" {
		r.FirstName = f.FirstName
	}
	if r.LastName == "" {
		r.LastName = f.LastName
	}
	if r.Phone == "" {
		r.Phone = f.Phone
	}
	r.Bot = r.Bot || f.Bot
	r.Deleted = r.Deleted || f.Deleted
}

// Bare reports whether the record carries no identity beyond its subject
// identifier: no handle and no name fields. Bare records are the candidates
// for the post-ingestion resolution pass.
func (r *Record) Bare() bool {
	return r.Handle == "" && r.FirstName == "" && r.LastName == ""
}

// DisplayName returns the best human-readable name for the participant:
// full name, then handle, then the bare identifier.
func (r *Record) DisplayName() string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name != "" {
		return name
	}
	if r.Handle != "" {
		return "@" + r.Handle
	}
	return r.Subject.String()
}
