package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

func TestHeaders_LitPassesThrough(t *testing.T) {
	specs := map[string]spec.HeaderValueSpec{
		"content_type": spec.HeaderLit(spec.StrLit("application/json")),
	}
	out, err := Headers(specs, spec.Variables{})
	require.NoError(t, err)
	assert.Equal(t, spec.StrLit("application/json"), out["content_type"])
}

func TestHeaders_VarRef_NotFound(t *testing.T) {
	specs := map[string]spec.HeaderValueSpec{
		"correlation_id": spec.HeaderVarRef(spec.VarRef{Kind: spec.VarRefStr, Name: "uid"}),
	}
	_, err := Headers(specs, spec.Variables{})
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindVariableNotFound))
}

func TestHeaders_VarRef_TypeMismatch(t *testing.T) {
	specs := map[string]spec.HeaderValueSpec{
		"correlation_id": spec.HeaderVarRef(spec.VarRef{Kind: spec.VarRefStr, Name: "uid"}),
	}
	vars := spec.Variables{"uid": spec.IntLit(42)}
	_, err := Headers(specs, vars)
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindVariableTypeMismatch))
}

func TestHeaders_VarRef_IntMatch(t *testing.T) {
	specs := map[string]spec.HeaderValueSpec{
		"correlation_id": spec.HeaderVarRef(spec.VarRef{Kind: spec.VarRefInt, Name: "uid"}),
	}
	vars := spec.Variables{"uid": spec.IntLit(42)}
	out, err := Headers(specs, vars)
	require.NoError(t, err)
	assert.Equal(t, spec.IntLit(42), out["correlation_id"])
}
