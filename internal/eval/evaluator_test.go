package eval

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

func testMessage(payload string, headers spec.Headers) spec.InputMessage {
	return spec.InputMessage{
		Payload: []byte(payload),
		Headers: headers,
		Route:   spec.Route{Exchange: "x", RoutingKey: "r.k"},
	}
}

func TestEvalStr_Lit(t *testing.T) {
	e := NewEvaluator(NewRNG())
	s, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarLit, Literal: spec.StrLit("fixed")}, testMessage("{}", nil))
	require.NoError(t, err)
	assert.Equal(t, "fixed", s)
}

func TestEvalInt_Lit_WrongKind(t *testing.T) {
	e := NewEvaluator(NewRNG())
	_, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarLit, Literal: spec.StrLit("nope")}, testMessage("{}", nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindVariableTypeMismatch))
}

func TestEvalStr_StrGen_BoundaryLengths(t *testing.T) {
	e := NewEvaluator(NewRNG())
	for _, n := range []uint8{0, 1, 255} {
		s, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarStrGen, Len: n}, testMessage("{}", nil))
		require.NoError(t, err)
		assert.Len(t, s, int(n))
		for _, c := range s {
			assert.True(t, (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
		}
	}
}

func TestEvalStr_Env_MissingAndSet(t *testing.T) {
	e := NewEvaluator(NewRNG())

	_, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarEnv, Name: "LAPIMPOSTEUR_TEST_UNSET_VAR"}, testMessage("{}", nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindEnvMissing))

	require.NoError(t, os.Setenv("LAPIMPOSTEUR_TEST_VAR", "hello"))
	defer os.Unsetenv("LAPIMPOSTEUR_TEST_VAR")
	s, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarEnv, Name: "LAPIMPOSTEUR_TEST_VAR"}, testMessage("{}", nil))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestEvalInt_Env_ParseFailure(t *testing.T) {
	e := NewEvaluator(NewRNG())
	require.NoError(t, os.Setenv("LAPIMPOSTEUR_TEST_INT_VAR", "not-a-number"))
	defer os.Unsetenv("LAPIMPOSTEUR_TEST_INT_VAR")
	_, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarEnv, Name: "LAPIMPOSTEUR_TEST_INT_VAR"}, testMessage("{}", nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindEnvParse))
}

func TestEvalInt_Header_MissingAndTypeMismatch(t *testing.T) {
	e := NewEvaluator(NewRNG())

	_, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarIntHeader, Name: "priority"}, testMessage("{}", nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindHeaderMissing))

	headers := spec.Headers{"priority": spec.StrLit("high")}
	_, err = e.EvalInt(context.Background(), spec.Var{Tag: spec.VarIntHeader, Name: "priority"}, testMessage("{}", headers))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindHeaderTypeMismatch))

	headers = spec.Headers{"priority": spec.IntLit(5)}
	i, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarIntHeader, Name: "priority"}, testMessage("{}", headers))
	require.NoError(t, err)
	assert.Equal(t, int64(5), i)
}

func TestEvalStr_JsonPath_NoMatchAndAmbiguous(t *testing.T) {
	e := NewEvaluator(NewRNG())

	_, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarStrJsonPath, Path: "$.missing"}, testMessage(`{"a":1}`, nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindJsonPathNoMatch))

	_, err = e.EvalStr(context.Background(), spec.Var{Tag: spec.VarStrJsonPath, Path: "$.items[*].name"}, testMessage(`{"items":[{"name":"a"},{"name":"b"}]}`, nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindJsonPathAmbiguous))

	s, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarStrJsonPath, Path: "$.user.name"}, testMessage(`{"user":{"name":"ana"}}`, nil))
	require.NoError(t, err)
	assert.Equal(t, "ana", s)
}

func TestEvalInt_JsonPath_TypeMismatch(t *testing.T) {
	e := NewEvaluator(NewRNG())
	_, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarIntJsonPath, Path: "$.name"}, testMessage(`{"name":"ana"}`, nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindJsonPathDeserialize))
}

func TestEvalStr_UuidGen_ProducesDistinctValues(t *testing.T) {
	e := NewEvaluator(NewRNG())
	a, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarUuidGen}, testMessage("{}", nil))
	require.NoError(t, err)
	b, err := e.EvalStr(context.Background(), spec.Var{Tag: spec.VarUuidGen}, testMessage("{}", nil))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestEvalInt_BadKind(t *testing.T) {
	e := NewEvaluator(NewRNG())
	_, err := e.EvalInt(context.Background(), spec.Var{Tag: spec.VarUuidGen}, testMessage("{}", nil))
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindBadKind))
}

func TestResolveVar_Lit_ReturnsVerbatim(t *testing.T) {
	e := NewEvaluator(NewRNG())
	lit, err := e.ResolveVar(context.Background(), spec.Var{Tag: spec.VarLit, Literal: spec.RealLit(3.5)}, testMessage("{}", nil))
	require.NoError(t, err)
	assert.True(t, spec.RealLit(3.5).Equal(lit))
}

func TestResolveVar_DispatchesByNaturalKind(t *testing.T) {
	e := NewEvaluator(NewRNG())
	lit, err := e.ResolveVar(context.Background(), spec.Var{Tag: spec.VarIntGen}, testMessage("{}", nil))
	require.NoError(t, err)
	assert.Equal(t, spec.LitInt, lit.Kind)
}
