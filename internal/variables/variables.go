// Package variables resolves an ActionSpec's Variables map
// against a delivery into a concrete spec.Variables environment, seeded with
// the reserved reply_to entry.
package variables

import (
	"context"

	"lapimposteur/internal/eval"
	"lapimposteur/internal/spec"
)

// Resolve evaluates each entry of vars against im in map iteration order,
// seeding the result with reply_to from im.Headers first. Resolution stops
// at the first error.
func Resolve(ctx context.Context, e *eval.Evaluator, vars map[string]spec.VarSpec, im spec.InputMessage) (spec.Variables, error) {
	out := make(spec.Variables, len(vars)+1)

	if replyTo, ok := im.Headers[spec.ReplyTo]; ok {
		out[spec.ReplyTo] = replyTo
	}

	for name, v := range vars {
		lit, err := e.ResolveVar(ctx, v, im)
		if err != nil {
			return nil, err
		}
		out[name] = lit
	}

	return out, nil
}
