package spec

import (
	"encoding/json"
	"fmt"
)

// VarRefKind tags which case of VarRef is populated.
type VarRefKind int

const (
	VarRefInt VarRefKind = iota
	VarRefStr
	VarRefReal
)

// VarRef references a named entry in a per-action Variables map, carrying
// the kind the reference expects that entry to resolve to.
type VarRef struct {
	Kind VarRefKind
	Name string
}

// MarshalJSON renders VarRef internally tagged by object key, e.g.
// {"Str": "name"}.
func (v VarRef) MarshalJSON() ([]byte, error) {
	var key string
	switch v.Kind {
	case VarRefInt:
		key = "Int"
	case VarRefStr:
		key = "Str"
	case VarRefReal:
		key = "Real"
	default:
		return nil, fmt.Errorf("spec: VarRef: unset kind")
	}
	return json.Marshal(map[string]string{key: v.Name})
}

func (v *VarRef) UnmarshalJSON(data []byte) error {
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("spec: VarRef: expected single-key object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("spec: VarRef: expected exactly one key, got %d", len(obj))
	}
	for key, name := range obj {
		switch key {
		case "Int":
			*v = VarRef{Kind: VarRefInt, Name: name}
		case "Str":
			*v = VarRef{Kind: VarRefStr, Name: name}
		case "Real":
			*v = VarRef{Kind: VarRefReal, Name: name}
		default:
			return fmt.Errorf("spec: VarRef: unknown case %q", key)
		}
	}
	return nil
}
