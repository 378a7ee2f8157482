package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	Ctx(ctx).Info().Str("chat", "gophers").Msg("hello")

	assert.True(t, tl.Contains(`"chat":"gophers"`))
	assert.True(t, tl.Contains("hello"))
}

func TestFromContextFallsBack(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck
}

func TestWithRunID(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithRunID(ctx, "run-abc")

	require.Equal(t, "run-abc", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))

	Ctx(ctx).Info().Msg("tagged")
	assert.True(t, tl.Contains(`"run_id":"run-abc"`))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("bogus").String())
	assert.Equal(t, "disabled", parseLevel("off").String())
}
