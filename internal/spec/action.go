package spec

// ActionSpec is a single scheduled publication derived from an incoming
// delivery. When is an additive gating expression: absent means the
// action always fires.
type ActionSpec struct {
	To        RouteSpec                  `json:"to"`
	Variables map[string]VarSpec         `json:"variables,omitempty"`
	Payload   PayloadTemplate            `json:"payload"`
	Headers   map[string]HeaderValueSpec `json:"headers,omitempty"`
	Schedule  ScheduleSpec               `json:"schedule"`
	When      *string                    `json:"when,omitempty"`
}
