package spec

import (
	"encoding/json"
	"fmt"
)

// VarTag names a case of Var.
type VarTag string

const (
	VarStrJsonPath VarTag = "StrJsonPath"
	VarIntJsonPath VarTag = "IntJsonPath"
	VarUuidGen     VarTag = "UuidGen"
	VarStrGen      VarTag = "StrGen"
	VarIntGen      VarTag = "IntGen"
	VarRealGen     VarTag = "RealGen"
	VarEnv         VarTag = "Env"
	VarStrHeader   VarTag = "StrHeader"
	VarIntHeader   VarTag = "IntHeader"
	VarDateTime    VarTag = "DateTime"
	VarTimestamp   VarTag = "Timestamp"
	VarLit         VarTag = "Lit"

	// VarSqlQuery is an additive case: a scalar SQL lookup.
	VarSqlQuery VarTag = "SqlQuery"
)

// nullaryVarTags produces no "param" field on the wire.
var nullaryVarTags = map[VarTag]bool{
	VarUuidGen:   true,
	VarIntGen:    true,
	VarRealGen:   true,
	VarDateTime:  true,
	VarTimestamp: true,
}

// SqlQueryParam is the payload of the additive Var::SqlQuery case.
type SqlQueryParam struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	Query  string `json:"query"`
	Args   []Lit  `json:"args,omitempty"`
}

// Var is the value-source sum type:
//
//	StrJsonPath(path) | IntJsonPath(path) | UuidGen | StrGen(len) | IntGen |
//	RealGen | Env(name) | StrHeader(name) | IntHeader(name) | DateTime |
//	Timestamp | Lit(Lit) | SqlQuery(SqlQueryParam)
//
// VarSpec wraps a Var for JSON purposes: the wire shape is
// {"type": "<Tag>", "param": <payload>} with "param" omitted for nullary
// tags. Since that wire shape and the in-memory sum type carry exactly the
// same information, VarSpec is Var itself; "the deserialized wrapper"
// versus "the value a reactor consumes" collapse to one Go type here.
type Var struct {
	Tag VarTag

	// StrJsonPath, IntJsonPath: JSONPath expression.
	Path string

	// StrGen: string length in [0,255].
	Len uint8

	// Env, StrHeader, IntHeader: name to look up.
	Name string

	// Lit: literal value, inlined verbatim.
	Literal Lit

	// SqlQuery: additive scalar-lookup source.
	SqlQuery SqlQueryParam
}

type VarSpec = Var

func (v Var) MarshalJSON() ([]byte, error) {
	wire := struct {
		Type  VarTag      `json:"type"`
		Param interface{} `json:"param,omitempty"`
	}{Type: v.Tag}

	if nullaryVarTags[v.Tag] {
		return json.Marshal(wire)
	}

	switch v.Tag {
	case VarStrJsonPath, VarIntJsonPath:
		wire.Param = v.Path
	case VarStrGen:
		wire.Param = v.Len
	case VarEnv, VarStrHeader, VarIntHeader:
		wire.Param = v.Name
	case VarLit:
		wire.Param = v.Literal
	case VarSqlQuery:
		wire.Param = v.SqlQuery
	default:
		return nil, fmt.Errorf("spec: Var: unknown tag %q", v.Tag)
	}
	return json.Marshal(wire)
}

func (v *Var) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type  VarTag          `json:"type"`
		Param json.RawMessage `json:"param"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("spec: Var: %w", err)
	}
	if wire.Type == "" {
		return fmt.Errorf("spec: Var: missing \"type\"")
	}

	out := Var{Tag: wire.Type}
	hasParam := len(wire.Param) > 0 && string(wire.Param) != "null"

	switch wire.Type {
	case VarUuidGen, VarIntGen, VarRealGen, VarDateTime, VarTimestamp:
		// nullary; ignore any stray param

	case VarStrJsonPath, VarIntJsonPath:
		if !hasParam {
			return fmt.Errorf("spec: Var: %s requires a \"param\" path string", wire.Type)
		}
		if err := json.Unmarshal(wire.Param, &out.Path); err != nil {
			return fmt.Errorf("spec: Var: %s: param must be a string: %w", wire.Type, err)
		}

	case VarStrGen:
		if !hasParam {
			return fmt.Errorf("spec: Var: StrGen requires a \"param\" length")
		}
		if err := json.Unmarshal(wire.Param, &out.Len); err != nil {
			return fmt.Errorf("spec: Var: StrGen: param must be a uint8: %w", err)
		}

	case VarEnv, VarStrHeader, VarIntHeader:
		if !hasParam {
			return fmt.Errorf("spec: Var: %s requires a \"param\" name string", wire.Type)
		}
		if err := json.Unmarshal(wire.Param, &out.Name); err != nil {
			return fmt.Errorf("spec: Var: %s: param must be a string: %w", wire.Type, err)
		}

	case VarLit:
		if !hasParam {
			return fmt.Errorf("spec: Var: Lit requires a \"param\" literal")
		}
		if err := json.Unmarshal(wire.Param, &out.Literal); err != nil {
			return fmt.Errorf("spec: Var: Lit: %w", err)
		}

	case VarSqlQuery:
		if !hasParam {
			return fmt.Errorf("spec: Var: SqlQuery requires a \"param\" object")
		}
		if err := json.Unmarshal(wire.Param, &out.SqlQuery); err != nil {
			return fmt.Errorf("spec: Var: SqlQuery: %w", err)
		}

	default:
		return fmt.Errorf("spec: Var: unknown tag %q", wire.Type)
	}

	*v = out
	return nil
}

// NaturalKind reports the natural Lit kind a successfully-resolved Var of
// this tag produces, per the kind table. Lit and SqlQuery report false: the
// evaluator takes a Lit's kind from the literal itself and a SqlQuery's
// from the Go type of the returned column.
func (t VarTag) NaturalKind() (LitKind, bool) {
	switch t {
	case VarStrJsonPath, VarStrGen, VarStrHeader, VarDateTime, VarUuidGen, VarEnv:
		return LitStr, true
	case VarIntJsonPath, VarIntHeader, VarTimestamp, VarIntGen:
		return LitInt, true
	case VarRealGen:
		return LitReal, true
	default:
		return 0, false
	}
}
