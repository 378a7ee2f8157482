package identity

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/jmallard/rollcall/pkg/errors"
)

// SubjectID is the canonical identifier of a participant.
//
// Platform identifiers can exceed the 53-bit range that survives a trip
// through JSON numbers, and the same subject may arrive as a bare integer,
// a string, or a wrapped object depending on the event category. The ID is
// therefore kept in canonical decimal-string form (validated and normalized
// through math/big), so differing representations of one subject collapse
// to a single map key and serialization round-trips exactly.
type SubjectID string

// ParseSubjectID parses and canonicalizes a decimal identifier.
func ParseSubjectID(s string) (SubjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.NewValidationError("subject_id", s, "empty identifier")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "", errors.NewValidationError("subject_id", s, "not a decimal integer")
	}
	return SubjectID(n.String()), nil
}

// SubjectIDFromInt64 converts a native identifier to its canonical form.
func SubjectIDFromInt64(n int64) SubjectID {
	return SubjectID(strconv.FormatInt(n, 10))
}

// SubjectIDFromBig converts an arbitrary-precision identifier to its
// canonical form. A nil value maps to the zero SubjectID.
func SubjectIDFromBig(n *big.Int) SubjectID {
	if n == nil {
		return ""
	}
	return SubjectID(n.String())
}

// String returns the decimal representation of the identifier.
func (id SubjectID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is absent.
func (id SubjectID) IsZero() bool {
	return id == ""
}

// BigInt returns the identifier as an arbitrary-precision integer.
// It returns nil for the zero SubjectID.
func (id SubjectID) BigInt() *big.Int {
	if id == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(string(id), 10)
	if !ok {
		return nil
	}
	return n
}

// Cmp compares two identifiers by numeric value, not lexically, so ordering
// stays correct past 2^53 and for negative chat/channel identifiers.
// The zero SubjectID sorts before every valid identifier.
func (id SubjectID) Cmp(other SubjectID) int {
	a, b := id.BigInt(), other.BigInt()
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Cmp(b)
	}
}

// MarshalJSON emits the identifier as a decimal string, never as a JSON
// number, to guarantee round-trip fidelity for large values.
func (id SubjectID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

// UnmarshalJSON accepts either a JSON string or a raw number token. Number
// tokens are parsed as integers directly from their text, bypassing float64
// so precision is never lost.
func (id *SubjectID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return errors.WrapParse("json", "", err)
		}
		s = unquoted
	}
	if s == "null" || s == "" {
		*id = ""
		return nil
	}
	parsed, err := ParseSubjectID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalYAML emits the identifier as a string for the same reason as
// MarshalJSON.
func (id SubjectID) MarshalYAML() (any, error) {
	return string(id), nil
}

// UnmarshalYAML accepts a scalar of any numeric or string shape.
func (id *SubjectID) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ""
		return nil
	case string:
		if v == "" {
			*id = ""
			return nil
		}
		parsed, err := ParseSubjectID(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case int:
		*id = SubjectIDFromInt64(int64(v))
		return nil
	case int64:
		*id = SubjectIDFromInt64(v)
		return nil
	case uint64:
		*id = SubjectID(strconv.FormatUint(v, 10))
		return nil
	default:
		parsed, err := ParseSubjectID(fmt.Sprintf("%v", raw))
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
}
