// Package amqpbridge maps broker deliveries to internal
// InputMessage values and internal Headers back to AMQP publishing
// properties, grounded in the rabbitmq trigger/activity pair's use of
// github.com/rabbitmq/amqp091-go.
package amqpbridge

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"lapimposteur/internal/spec"
)

// standardHeaderNames lists the thirteen AMQP properties that round-trip
// through dedicated header slots instead of the generic field table.
var standardHeaderNames = map[string]bool{
	"content_type":     true,
	"content_encoding": true,
	"delivery_mode":    true,
	"priority":         true,
	"correlation_id":   true,
	"reply_to":         true,
	"expiration":       true,
	"message_id":       true,
	"timestamp":        true,
	"type":             true,
	"user_id":          true,
	"app_id":           true,
	"cluster_id":       true,
}

// Decode maps a broker delivery into an InputMessage.
func Decode(d amqp.Delivery) spec.InputMessage {
	headers := make(spec.Headers)

	if d.ContentType != "" {
		headers["content_type"] = spec.StrLit(d.ContentType)
	}
	if d.ContentEncoding != "" {
		headers["content_encoding"] = spec.StrLit(d.ContentEncoding)
	}
	if d.DeliveryMode != 0 {
		headers["delivery_mode"] = spec.IntLit(int64(d.DeliveryMode))
	}
	if d.Priority != 0 {
		headers["priority"] = spec.IntLit(int64(d.Priority))
	}
	if d.CorrelationId != "" {
		headers["correlation_id"] = spec.StrLit(d.CorrelationId)
	}
	if d.ReplyTo != "" {
		headers["reply_to"] = spec.StrLit(d.ReplyTo)
	}
	if d.Expiration != "" {
		headers["expiration"] = spec.StrLit(d.Expiration)
	}
	if d.MessageId != "" {
		headers["message_id"] = spec.StrLit(d.MessageId)
	}
	if !d.Timestamp.IsZero() {
		headers["timestamp"] = spec.IntLit(d.Timestamp.Unix())
	}
	if d.Type != "" {
		headers["type"] = spec.StrLit(d.Type)
	}
	if d.UserId != "" {
		headers["user_id"] = spec.StrLit(d.UserId)
	}
	if d.AppId != "" {
		headers["app_id"] = spec.StrLit(d.AppId)
	}
	if d.ClusterId != "" {
		headers["cluster_id"] = spec.StrLit(d.ClusterId)
	}

	for name, v := range d.Headers {
		if standardHeaderNames[name] {
			continue
		}
		if lit, ok := fieldValueToLit(v); ok {
			headers[name] = lit
		}
	}

	return spec.InputMessage{
		Payload: d.Body,
		Headers: headers,
		Route: spec.Route{
			Exchange:   d.Exchange,
			RoutingKey: d.RoutingKey,
		},
	}
}

// fieldValueToLit converts a single AMQP field-table value: integer-family
// values become Lit::Int, strings become Lit::Str; everything else
// (floats, decimals, arrays, tables, byte arrays, booleans, void) is
// dropped.
func fieldValueToLit(v interface{}) (spec.Lit, bool) {
	switch n := v.(type) {
	case int8:
		return spec.IntLit(int64(n)), true
	case int16:
		return spec.IntLit(int64(n)), true
	case int32:
		return spec.IntLit(int64(n)), true
	case int64:
		return spec.IntLit(n), true
	case int:
		return spec.IntLit(int64(n)), true
	case uint8:
		return spec.IntLit(int64(n)), true
	case uint16:
		return spec.IntLit(int64(n)), true
	case uint32:
		return spec.IntLit(int64(n)), true
	case string:
		return spec.StrLit(n), true
	default:
		return spec.Lit{}, false
	}
}

// Publishing maps headers to an amqp091-go Publishing, routing the thirteen
// standard properties to their dedicated slots and everything else into
// the generic field table. A standard-named header whose Lit kind does not
// fit its slot (an Int correlation_id, for example) goes into the field
// table under its own name. contentType defaults to empty when not
// present in headers, matching the "no coercion without header" behaviour
// invariant 3 gives every other field.
func Publishing(body []byte, headers spec.Headers) amqp.Publishing {
	pub := amqp.Publishing{Body: body}
	table := amqp.Table{}

	for name, lit := range headers {
		slot := name
		if standardHeaderNames[name] {
			wantKind := spec.LitStr
			if name == "delivery_mode" || name == "priority" || name == "timestamp" {
				wantKind = spec.LitInt
			}
			if lit.Kind != wantKind {
				slot = ""
			}
		}
		switch slot {
		case "content_type":
			pub.ContentType = lit.S
		case "content_encoding":
			pub.ContentEncoding = lit.S
		case "delivery_mode":
			pub.DeliveryMode = uint8(lit.I)
		case "priority":
			pub.Priority = uint8(lit.I)
		case "correlation_id":
			pub.CorrelationId = lit.S
		case "reply_to":
			pub.ReplyTo = lit.S
		case "expiration":
			pub.Expiration = lit.S
		case "message_id":
			pub.MessageId = lit.S
		case "timestamp":
			pub.Timestamp = timestampFromUnix(lit.I)
		case "type":
			pub.Type = lit.S
		case "user_id":
			pub.UserId = lit.S
		case "app_id":
			pub.AppId = lit.S
		case "cluster_id":
			pub.ClusterId = lit.S
		default:
			switch lit.Kind {
			case spec.LitStr:
				table[name] = lit.S
			case spec.LitInt:
				table[name] = lit.I
			case spec.LitReal:
				table[name] = lit.R
			}
		}
	}

	if len(table) > 0 {
		pub.Headers = table
	}
	return pub
}

func timestampFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
