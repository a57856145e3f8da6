package spec

// RouteSpec is { exchange: optional string, routingKey: optional string }.
// Pointers keep "absent" and "present but empty" apart in the decoded
// spec; route fill treats the two alike.
type RouteSpec struct {
	Exchange   *string `json:"exchange,omitempty"`
	RoutingKey *string `json:"routingKey,omitempty"`
}

func strp(s string) *string { return &s }

// NewRouteSpec builds a RouteSpec with both fields present.
func NewRouteSpec(exchange, routingKey string) RouteSpec {
	return RouteSpec{Exchange: strp(exchange), RoutingKey: strp(routingKey)}
}
