package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("subject", "12345678901234567")
	assert.EqualError(t, err, "subject with ID 12345678901234567 not found")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAccessDenied(err))
}

func TestAccessError(t *testing.T) {
	inner := stderrors.New("kicked")
	err := &AccessError{Subject: "42", Message: "bot was kicked", Err: inner}
	assert.EqualError(t, err, "access denied for subject 42: bot was kicked")
	assert.True(t, IsAccessDenied(err))
	assert.ErrorIs(t, err, inner)

	bare := &AccessError{Subject: "42"}
	assert.EqualError(t, bare, "access denied for subject 42")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("format", "xml", "must be json or yaml")
	assert.EqualError(t, err, "validation failed for field format: must be json or yaml")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{404, IsNotFound, "not found"},
		{403, IsAccessDenied, "access denied"},
		{429, IsRateLimited, "rate limited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError("getChat", tt.status, "nope")
			assert.True(t, tt.check(err))
		})
	}

	// 500 maps to no sentinel.
	err := NewAPIError("getChat", 500, "boom")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsAccessDenied(err))
	assert.False(t, IsRateLimited(err))
	assert.EqualError(t, err, "API error from getChat (status 500): boom")
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, WrapIO("read", "/tmp/x", nil))
	assert.NoError(t, WrapParse("jsonl", "dump.jsonl", nil))
	assert.NoError(t, WrapAPI("getChat", 0, nil))
	assert.NoError(t, WrapValidation("limit", nil))

	inner := fmt.Errorf("disk full")
	err := WrapIO("write", "/tmp/out.json", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/tmp/out.json")

	perr := WrapParse("jsonl", "dump.jsonl", inner)
	assert.ErrorIs(t, perr, inner)
	assert.Contains(t, perr.Error(), "dump.jsonl")
}

func TestParseErrorFormats(t *testing.T) {
	withLine := &ParseError{Format: "jsonl", File: "dump.jsonl", Line: 7, Message: "bad token"}
	assert.EqualError(t, withLine, "parse error in jsonl at dump.jsonl:7: bad token")

	noLine := &ParseError{Format: "yaml", File: "cfg.yaml", Message: "bad indent"}
	assert.EqualError(t, noLine, "parse error in yaml file cfg.yaml: bad indent")

	bare := &ParseError{Format: "json", Message: "unexpected end"}
	assert.EqualError(t, bare, "json parse error: unexpected end")
}
