package spec

import (
	"encoding/json"
	"fmt"
)

// HeaderValueSpec is the Lit(Lit) | VarRef(VarRef) sum type, internally
// tagged by object key: {"Lit": ...} or {"VarRef": {"Str": "n"}}.
type HeaderValueSpec struct {
	IsVarRef bool
	Literal  Lit
	Ref      VarRef
}

func HeaderLit(l Lit) HeaderValueSpec          { return HeaderValueSpec{Literal: l} }
func HeaderVarRef(r VarRef) HeaderValueSpec    { return HeaderValueSpec{IsVarRef: true, Ref: r} }

func (h HeaderValueSpec) MarshalJSON() ([]byte, error) {
	if h.IsVarRef {
		return json.Marshal(map[string]VarRef{"VarRef": h.Ref})
	}
	return json.Marshal(map[string]Lit{"Lit": h.Literal})
}

func (h *HeaderValueSpec) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("spec: HeaderValueSpec: expected single-key object: %w", err)
	}
	if len(probe) != 1 {
		return fmt.Errorf("spec: HeaderValueSpec: expected exactly one key, got %d", len(probe))
	}
	if raw, ok := probe["Lit"]; ok {
		var l Lit
		if err := json.Unmarshal(raw, &l); err != nil {
			return fmt.Errorf("spec: HeaderValueSpec: Lit: %w", err)
		}
		*h = HeaderValueSpec{Literal: l}
		return nil
	}
	if raw, ok := probe["VarRef"]; ok {
		var r VarRef
		if err := json.Unmarshal(raw, &r); err != nil {
			return fmt.Errorf("spec: HeaderValueSpec: VarRef: %w", err)
		}
		*h = HeaderValueSpec{IsVarRef: true, Ref: r}
		return nil
	}
	return fmt.Errorf("spec: HeaderValueSpec: unknown case (expected \"Lit\" or \"VarRef\")")
}
