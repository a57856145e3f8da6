// Package render fills payload, headers, and route from a resolved
// Variables map.
package render

import (
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/cbroglie/mustache"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
	"lapimposteur/internal/templatesource"
)

// Payload loads and renders p against vars. Inline templates render their
// text directly; File templates are read fresh on every call.
func Payload(p spec.PayloadTemplate, vars spec.Variables) (string, error) {
	text := p.Text
	if p.IsFile {
		raw, err := templatesource.Read(p.Path)
		if err != nil {
			if fsErr, ok := err.(*fs.PathError); ok {
				return "", lerr.New(lerr.KindFileRead, fsErr)
			}
			return "", lerr.New(lerr.KindFileRead, err)
		}
		if !utf8.Valid(raw) {
			return "", lerr.New(lerr.KindNotUtf8, fmt.Errorf("%s: not valid UTF-8", p.Path))
		}
		text = string(raw)
	}

	tmpl, err := mustache.ParseString(text)
	if err != nil {
		return "", lerr.New(lerr.KindTemplateCompile, err)
	}

	ctx := renderContext(vars)
	out, err := tmpl.Render(ctx)
	if err != nil {
		return "", lerr.New(lerr.KindTemplateRender, err)
	}
	return out, nil
}

// renderContext builds the Mustache render context, injecting each Lit
// under its native Go type so Int renders as an integer, Str as a string,
// Real as a double.
func renderContext(vars spec.Variables) map[string]interface{} {
	ctx := make(map[string]interface{}, len(vars))
	for name, lit := range vars {
		switch lit.Kind {
		case spec.LitInt:
			ctx[name] = lit.I
		case spec.LitStr:
			ctx[name] = lit.S
		case spec.LitReal:
			ctx[name] = lit.R
		}
	}
	return ctx
}
