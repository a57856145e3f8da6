package spec

// Headers is an unordered mapping from header name to Lit.
type Headers map[string]Lit

// Route is a concrete (exchange, routing_key) pair.
type Route struct {
	Exchange   string
	RoutingKey string
}

// InputMessage is the delivered message after AMQP decoding.
type InputMessage struct {
	Payload []byte
	Headers Headers
	Route   Route
}

// Variables maps variable name to Lit, computed fresh per delivery.
type Variables map[string]Lit

// ReplyTo is the reserved variable name that seeds Variables from the
// input message's reply_to header.
const ReplyTo = "reply_to"
