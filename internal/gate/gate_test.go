package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/spec"
)

func TestFires_NilWhenAlwaysFires(t *testing.T) {
	ok, err := Fires(nil, spec.Variables{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFires_EmptyWhenAlwaysFires(t *testing.T) {
	empty := ""
	ok, err := Fires(&empty, spec.Variables{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFires_NumericComparison(t *testing.T) {
	expr := "{{ count }} > 5"
	vars := spec.Variables{"count": spec.IntLit(10)}
	ok, err := Fires(&expr, vars)
	require.NoError(t, err)
	assert.True(t, ok)

	vars = spec.Variables{"count": spec.IntLit(1)}
	ok, err = Fires(&expr, vars)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFires_StringComparisonIsQuoted(t *testing.T) {
	expr := `{{ status }} === "ok"`
	vars := spec.Variables{"status": spec.StrLit("ok")}
	ok, err := Fires(&expr, vars)
	require.NoError(t, err)
	assert.True(t, ok)
}
