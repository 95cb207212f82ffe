package id_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/id"
)

func TestGenerate_Prefixed(t *testing.T) {
	got, err := id.Generate(id.PrefixActivity)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "act-"))
	assert.Len(t, got, len("act-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := id.Generate(id.PrefixPreview)
		require.NoError(t, err)
		require.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}
