package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutter/internal/renderer"
)

func TestList_HappyPath(t *testing.T) {
	exec := &stubExecutor{output: pngBytes(t, 20, 20), reportText: "2 captures recorded"}
	deps := testDeps(t, exec)

	for i := 0; i < 2; i++ {
		_, err := Take(context.Background(), deps, TakeInput{URL: "https://example.com"})
		require.NoError(t, err)
	}

	output, err := List(context.Background(), deps, ListInput{})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Equal(t, 2, output.Count)
	assert.Len(t, output.Screenshots, 2)
	assert.Equal(t, DefaultListLimit, output.Limit)
	assert.Equal(t, "2 captures recorded", output.RendererReport)
}

func TestList_Empty(t *testing.T) {
	deps := testDeps(t, &stubExecutor{})

	output, err := List(context.Background(), deps, ListInput{})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Equal(t, 0, output.Count)
	assert.NotNil(t, output.Screenshots, "screenshots should be an empty array, not null")
}

func TestList_ReportFailureDegrades(t *testing.T) {
	exec := &stubExecutor{
		output:    pngBytes(t, 20, 20),
		reportErr: assert.AnError,
	}
	deps := testDeps(t, exec)

	_, err := Take(context.Background(), deps, TakeInput{URL: "https://example.com"})
	require.NoError(t, err)

	output, err := List(context.Background(), deps, ListInput{})
	require.NoError(t, err, "report failure must not abort listing")
	assert.Equal(t, renderer.ReportUnavailable, output.RendererReport)
	assert.Equal(t, 1, output.Count)
}

func TestList_LimitClamped(t *testing.T) {
	deps := testDeps(t, &stubExecutor{})

	output, err := List(context.Background(), deps, ListInput{Limit: MaxListLimit * 10})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, output.Limit)
}
