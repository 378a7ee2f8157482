package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallard/rollcall/pkg/identity"
)

func TestParseSubjectID(t *testing.T) {
	t.Run("canonicalizes representation", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"7", "7"},
			{"007", "7"},
			{"+42", "42"},
			{"-1001234567890", "-1001234567890"},
			{" 12345678901234567 ", "12345678901234567"},
		}
		for _, tt := range tests {
			id, err := identity.ParseSubjectID(tt.input)
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, id.String(), "input %q", tt.input)
		}
	})

	t.Run("rejects non-decimal input", func(t *testing.T) {
		for _, input := range []string{"", "abc", "12.5", "0x10", "12three"} {
			_, err := identity.ParseSubjectID(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestSubjectIDCmp(t *testing.T) {
	// Numeric ordering, not lexical: "9" sorts before "10".
	nine := identity.SubjectIDFromInt64(9)
	ten := identity.SubjectIDFromInt64(10)
	assert.Negative(t, nine.Cmp(ten))
	assert.Positive(t, ten.Cmp(nine))
	assert.Zero(t, nine.Cmp(nine))

	// Negative channel ids sort before users.
	channel, err := identity.ParseSubjectID("-1001234567890")
	require.NoError(t, err)
	assert.Negative(t, channel.Cmp(nine))

	// Correct past 2^53.
	big1, err := identity.ParseSubjectID("12345678901234567")
	require.NoError(t, err)
	big2, err := identity.ParseSubjectID("12345678901234568")
	require.NoError(t, err)
	assert.Negative(t, big1.Cmp(big2))
	assert.Positive(t, big1.Cmp(ten))
}

func TestSubjectIDJSON(t *testing.T) {
	t.Run("marshals as decimal string", func(t *testing.T) {
		out, err := json.Marshal(identity.SubjectID("12345678901234567"))
		require.NoError(t, err)
		assert.Equal(t, `"12345678901234567"`, string(out))
	})

	t.Run("unmarshals number token without precision loss", func(t *testing.T) {
		var id identity.SubjectID
		require.NoError(t, json.Unmarshal([]byte(`12345678901234567`), &id))
		assert.Equal(t, "12345678901234567", id.String())
	})

	t.Run("unmarshals string", func(t *testing.T) {
		var id identity.SubjectID
		require.NoError(t, json.Unmarshal([]byte(`"42"`), &id))
		assert.Equal(t, "42", id.String())
	})

	t.Run("round trips exactly", func(t *testing.T) {
		for _, raw := range []string{"5", "-20", "12345678901234567", "98765432109876543210"} {
			id, err := identity.ParseSubjectID(raw)
			require.NoError(t, err)

			out, err := json.Marshal(id)
			require.NoError(t, err)

			var back identity.SubjectID
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, id, back)
		}
	})

	t.Run("null decodes to zero", func(t *testing.T) {
		var id identity.SubjectID
		require.NoError(t, json.Unmarshal([]byte(`null`), &id))
		assert.True(t, id.IsZero())
	})
}

func TestSubjectIDBigInt(t *testing.T) {
	id, err := identity.ParseSubjectID("98765432109876543210")
	require.NoError(t, err)
	n := id.BigInt()
	require.NotNil(t, n)
	assert.Equal(t, "98765432109876543210", n.String())

	assert.Nil(t, identity.SubjectID("").BigInt())
}
