package eval

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"

	"lapimposteur/internal/lerr"
)

// jsonPathOne evaluates path against payload parsed as JSON and requires
// exactly one match.
func jsonPathOne(payload []byte, path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, lerr.New(lerr.KindJsonParse, fmt.Errorf("decode payload: %w", err))
	}

	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, lerr.New(lerr.KindJsonPathCompile, fmt.Errorf("compile %q: %w", path, err))
	}

	results := expr.Get(data)
	switch len(results) {
	case 0:
		return nil, lerr.New(lerr.KindJsonPathNoMatch, fmt.Errorf("no match for %q", path))
	case 1:
		return results[0], nil
	default:
		return nil, lerr.New(lerr.KindJsonPathAmbiguous, fmt.Errorf("%d matches for %q, expected exactly one", len(results), path))
	}
}

func jsonPathInt(payload []byte, path string) (int64, error) {
	v, err := jsonPathOne(payload, path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, lerr.New(lerr.KindJsonPathDeserialize, fmt.Errorf("%q: value %v is not an integer", path, v))
	}
}

func jsonPathStr(payload []byte, path string) (string, error) {
	v, err := jsonPathOne(payload, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", lerr.New(lerr.KindJsonPathDeserialize, fmt.Errorf("%q: value %v is not a string", path, v))
	}
	return s, nil
}
