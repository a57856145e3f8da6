package variables

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/eval"
	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

func TestResolve_SeedsReplyTo(t *testing.T) {
	e := eval.NewEvaluator(eval.NewRNG())
	im := spec.InputMessage{
		Payload: []byte(`{}`),
		Headers: spec.Headers{spec.ReplyTo: spec.StrLit("amq.gen-xyz")},
	}

	out, err := Resolve(context.Background(), e, nil, im)
	require.NoError(t, err)
	assert.Equal(t, spec.StrLit("amq.gen-xyz"), out[spec.ReplyTo])
}

func TestResolve_NoReplyToHeaderLeavesUnset(t *testing.T) {
	e := eval.NewEvaluator(eval.NewRNG())
	im := spec.InputMessage{Payload: []byte(`{}`), Headers: spec.Headers{}}

	out, err := Resolve(context.Background(), e, nil, im)
	require.NoError(t, err)
	_, ok := out[spec.ReplyTo]
	assert.False(t, ok)
}

func TestResolve_EvaluatesEachVar(t *testing.T) {
	e := eval.NewEvaluator(eval.NewRNG())
	im := spec.InputMessage{Payload: []byte(`{"user":{"id":7}}`), Headers: spec.Headers{}}

	vars := map[string]spec.VarSpec{
		"id":  {Tag: spec.VarIntJsonPath, Path: "$.user.id"},
		"tag": {Tag: spec.VarLit, Literal: spec.StrLit("v1")},
	}

	out, err := Resolve(context.Background(), e, vars, im)
	require.NoError(t, err)
	assert.Equal(t, spec.IntLit(7), out["id"])
	assert.Equal(t, spec.StrLit("v1"), out["tag"])
}

func TestResolve_AbortsOnFirstError(t *testing.T) {
	e := eval.NewEvaluator(eval.NewRNG())
	im := spec.InputMessage{Payload: []byte(`{}`), Headers: spec.Headers{}}

	vars := map[string]spec.VarSpec{
		"missing": {Tag: spec.VarIntJsonPath, Path: "$.absent"},
	}

	_, err := Resolve(context.Background(), e, vars, im)
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindJsonPathNoMatch))
}
