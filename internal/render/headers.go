package render

import (
	"fmt"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

// Headers fills a HeaderValueSpec map against vars, producing a concrete
// Headers map of the same size. Lit entries pass through verbatim;
// VarRef entries require the named Variables entry to exist and match the
// reference's kind.
func Headers(specs map[string]spec.HeaderValueSpec, vars spec.Variables) (spec.Headers, error) {
	out := make(spec.Headers, len(specs))
	for name, h := range specs {
		if !h.IsVarRef {
			out[name] = h.Literal
			continue
		}

		lit, ok := vars[h.Ref.Name]
		if !ok {
			return nil, lerr.New(lerr.KindVariableNotFound, fmt.Errorf("header %q: variable %q not found", name, h.Ref.Name))
		}

		expected := refExpectedKind(h.Ref.Kind)
		if lit.Kind != expected {
			return nil, lerr.New(lerr.KindVariableTypeMismatch, fmt.Errorf("header %q: variable %q is %s, expected %s", name, h.Ref.Name, lit.Kind, expected))
		}
		out[name] = lit
	}
	return out, nil
}

func refExpectedKind(k spec.VarRefKind) spec.LitKind {
	switch k {
	case spec.VarRefInt:
		return spec.LitInt
	case spec.VarRefReal:
		return spec.LitReal
	default:
		return spec.LitStr
	}
}
