// Package gate implements the additive ActionSpec.When gating expression:
// a goja-evaluated JS boolean snippet with Mustache tokens substituted
// from the action's resolved Variables.
package gate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

// Fires reports whether an action with the given When expression should
// run against vars. A nil/empty expr always fires. Substitution reuses
// render's Mustache fill so the same {{ name }} syntax works in When as
// in the payload template.
func Fires(when *string, vars spec.Variables) (bool, error) {
	if when == nil || *when == "" {
		return true, nil
	}

	substituted, err := render.Payload(spec.InlineTemplate(substituteForJS(*when, vars)), vars)
	if err != nil {
		return false, err
	}

	vm := goja.New()
	result, err := vm.RunString(substituted)
	if err != nil {
		return false, lerr.New(lerr.KindTemplateRender, fmt.Errorf("when: evaluate %q: %w", *when, err))
	}
	return result.ToBoolean(), nil
}

// substituteForJS rewrites a When expression so that {{ name }} tokens are
// still valid Mustache but render as JS-literal-safe tokens (strings
// quoted, numbers bare) rather than raw interpolation. Mustache itself
// can't conditionally quote by kind, so string-kind variables are
// pre-quoted here before the shared render.Payload call does the actual
// substitution.
func substituteForJS(expr string, vars spec.Variables) string {
	for name, lit := range vars {
		if lit.Kind != spec.LitStr {
			continue
		}
		quoted, _ := json.Marshal(lit.S)
		expr = replaceToken(expr, name, string(quoted))
	}
	return expr
}

func replaceToken(expr, name, quoted string) string {
	expr = strings.ReplaceAll(expr, "{{ "+name+" }}", quoted)
	expr = strings.ReplaceAll(expr, "{{"+name+"}}", quoted)
	return expr
}
