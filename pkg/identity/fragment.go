package identity

import "slices"

// Source identifies which event category produced a fragment. It is kept
// for diagnostics and counters only and is not part of the merged output.
type Source string

// Known fragment sources.
const (
	SourceAuthor      Source = "author"
	SourceJoin        Source = "join"
	SourceAdd         Source = "add"
	SourceRemove      Source = "remove"
	SourceCreate      Source = "create"
	SourceForward     Source = "forward"
	SourceMention     Source = "mention"
	SourceContact     Source = "contact"
	SourceParticipant Source = "participant"
	SourceLookup      Source = "lookup"
)

// Sources returns all known fragment sources.
func Sources() []Source {
	return []Source{
		SourceAuthor,
		SourceJoin,
		SourceAdd,
		SourceRemove,
		SourceCreate,
		SourceForward,
		SourceMention,
		SourceContact,
		SourceParticipant,
		SourceLookup,
	}
}

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// IsValid returns true if the source is one of the defined constants.
func (s Source) IsValid() bool {
	return slices.Contains(Sources(), s)
}

// Fragment is a partial observation of a participant produced by one event.
// Empty string fields and false flags mean "not observed".
type Fragment struct {
	Subject   SubjectID
	Handle    string
	FirstName string
	LastName  string
	Phone     string
	Bot       bool
	Deleted   bool
	Source    Source
}
