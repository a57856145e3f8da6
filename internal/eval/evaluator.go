// Package eval implements the typed variable evaluator: resolving a
// single spec.Var against an in-flight spec.InputMessage and a
// per-delivery RNG into a concrete spec.Lit.
package eval

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

// Evaluator resolves Var values against a single delivery. It must not be
// shared across concurrently-handled deliveries: its RNG is not safe for
// concurrent use.
type Evaluator struct {
	rng *rand.Rand
}

func NewEvaluator(rng *rand.Rand) *Evaluator {
	return &Evaluator{rng: rng}
}

// EvalInt resolves v under the expectation that it produces an Int.
func (e *Evaluator) EvalInt(ctx context.Context, v spec.Var, im spec.InputMessage) (int64, error) {
	switch v.Tag {
	case spec.VarEnv:
		raw, ok := os.LookupEnv(v.Name)
		if !ok {
			return 0, lerr.New(lerr.KindEnvMissing, fmt.Errorf("env %q not set", v.Name))
		}
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, lerr.New(lerr.KindEnvParse, fmt.Errorf("env %q: %w", v.Name, err))
		}
		return i, nil

	case spec.VarIntGen:
		return int64(e.rng.Uint64()), nil

	case spec.VarIntHeader:
		lit, ok := im.Headers[v.Name]
		if !ok {
			return 0, lerr.New(lerr.KindHeaderMissing, fmt.Errorf("header %q not present", v.Name))
		}
		if lit.Kind != spec.LitInt {
			return 0, lerr.New(lerr.KindHeaderTypeMismatch, fmt.Errorf("header %q is not an int", v.Name))
		}
		return lit.I, nil

	case spec.VarIntJsonPath:
		return jsonPathInt(im.Payload, v.Path)

	case spec.VarTimestamp:
		return time.Now().UTC().UnixNano(), nil

	case spec.VarLit:
		if v.Literal.Kind != spec.LitInt {
			return 0, lerr.New(lerr.KindVariableTypeMismatch, fmt.Errorf("literal is not an int"))
		}
		return v.Literal.I, nil

	case spec.VarSqlQuery:
		return sqlScalarAsInt(ctx, v.SqlQuery)

	default:
		return 0, lerr.New(lerr.KindBadKind, fmt.Errorf("%s does not produce an int", v.Tag))
	}
}

// EvalStr resolves v under the expectation that it produces a Str.
func (e *Evaluator) EvalStr(ctx context.Context, v spec.Var, im spec.InputMessage) (string, error) {
	switch v.Tag {
	case spec.VarEnv:
		raw, ok := os.LookupEnv(v.Name)
		if !ok {
			return "", lerr.New(lerr.KindEnvMissing, fmt.Errorf("env %q not set", v.Name))
		}
		return raw, nil

	case spec.VarStrGen:
		return randomAlphanumeric(e.rng, v.Len), nil

	case spec.VarStrHeader:
		lit, ok := im.Headers[v.Name]
		if !ok {
			return "", lerr.New(lerr.KindHeaderMissing, fmt.Errorf("header %q not present", v.Name))
		}
		if lit.Kind != spec.LitStr {
			return "", lerr.New(lerr.KindHeaderTypeMismatch, fmt.Errorf("header %q is not a string", v.Name))
		}
		return lit.S, nil

	case spec.VarStrJsonPath:
		return jsonPathStr(im.Payload, v.Path)

	case spec.VarDateTime:
		return time.Now().UTC().Format(time.RFC3339), nil

	case spec.VarUuidGen:
		return uuid.New().String(), nil

	case spec.VarLit:
		if v.Literal.Kind != spec.LitStr {
			return "", lerr.New(lerr.KindVariableTypeMismatch, fmt.Errorf("literal is not a string"))
		}
		return v.Literal.S, nil

	case spec.VarSqlQuery:
		return sqlScalarAsStr(ctx, v.SqlQuery)

	default:
		return "", lerr.New(lerr.KindBadKind, fmt.Errorf("%s does not produce a string", v.Tag))
	}
}

// EvalReal resolves v under the expectation that it produces a Real.
func (e *Evaluator) EvalReal(ctx context.Context, v spec.Var, im spec.InputMessage) (float64, error) {
	switch v.Tag {
	case spec.VarEnv:
		raw, ok := os.LookupEnv(v.Name)
		if !ok {
			return 0, lerr.New(lerr.KindEnvMissing, fmt.Errorf("env %q not set", v.Name))
		}
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, lerr.New(lerr.KindEnvParse, fmt.Errorf("env %q: %w", v.Name, err))
		}
		return r, nil

	case spec.VarRealGen:
		return e.rng.Float64(), nil

	case spec.VarLit:
		if v.Literal.Kind != spec.LitReal {
			return 0, lerr.New(lerr.KindVariableTypeMismatch, fmt.Errorf("literal is not a real"))
		}
		return v.Literal.R, nil

	case spec.VarSqlQuery:
		return sqlScalarAsReal(ctx, v.SqlQuery)

	default:
		return 0, lerr.New(lerr.KindBadKind, fmt.Errorf("%s does not produce a real", v.Tag))
	}
}

// ResolveVar resolves v to a Lit using its own natural kind, dispatching to
// the matching typed Eval* method. This is what the variable resolver
// calls for each VarSpec entry: it has no "expected kind" input of its
// own, unlike EvalInt/EvalStr/EvalReal, which each produce one fixed kind.
func (e *Evaluator) ResolveVar(ctx context.Context, v spec.Var, im spec.InputMessage) (spec.Lit, error) {
	if v.Tag == spec.VarLit {
		return v.Literal, nil
	}
	if v.Tag == spec.VarSqlQuery {
		return sqlScalarResolved(ctx, v.SqlQuery)
	}

	kind, ok := v.Tag.NaturalKind()
	if !ok {
		return spec.Lit{}, lerr.New(lerr.KindBadKind, fmt.Errorf("%s has no natural kind", v.Tag))
	}

	switch kind {
	case spec.LitInt:
		i, err := e.EvalInt(ctx, v, im)
		if err != nil {
			return spec.Lit{}, err
		}
		return spec.IntLit(i), nil
	case spec.LitStr:
		s, err := e.EvalStr(ctx, v, im)
		if err != nil {
			return spec.Lit{}, err
		}
		return spec.StrLit(s), nil
	case spec.LitReal:
		r, err := e.EvalReal(ctx, v, im)
		if err != nil {
			return spec.Lit{}, err
		}
		return spec.RealLit(r), nil
	default:
		return spec.Lit{}, lerr.New(lerr.KindBadKind, fmt.Errorf("%s: unknown natural kind", v.Tag))
	}
}
