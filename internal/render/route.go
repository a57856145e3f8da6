package render

import (
	"fmt"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

// Options controls optional compatibility behaviour for Route.
type Options struct {
	// CompatInvalidKey substitutes the literal "invalid.key" for a missing
	// reply_to instead of failing with ReplyToMissing. Non-canonical; off
	// by default.
	CompatInvalidKey bool
}

// Route computes the concrete (exchange, routing_key) pair from r and vars
// per the fill table. An absent or empty exchange means the default
// exchange with reply_to as the routing key, whatever routingKey says; a
// named exchange uses routingKey when it is present and non-empty, and
// reply_to otherwise.
func Route(r spec.RouteSpec, vars spec.Variables, opts Options) (spec.Route, error) {
	exchange := ""
	if r.Exchange != nil {
		exchange = *r.Exchange
	}

	needsReplyTo := exchange == "" || r.RoutingKey == nil || *r.RoutingKey == ""
	if !needsReplyTo {
		return spec.Route{Exchange: exchange, RoutingKey: *r.RoutingKey}, nil
	}

	replyTo, ok := vars[spec.ReplyTo]
	if !ok || replyTo.Kind != spec.LitStr {
		if opts.CompatInvalidKey {
			return spec.Route{Exchange: exchange, RoutingKey: "invalid.key"}, nil
		}
		return spec.Route{}, lerr.New(lerr.KindReplyToMissing, fmt.Errorf("route requires reply_to but it is not set"))
	}

	return spec.Route{Exchange: exchange, RoutingKey: replyTo.S}, nil
}
