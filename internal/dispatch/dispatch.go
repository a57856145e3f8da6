// Package dispatch runs a single ActionSpec against an InputMessage:
// resolve variables, evaluate the When gate, fill payload/headers/route,
// encode and publish. Shared by both the reactor runtime (real
// deliveries) and the generator scheduler (synthetic deliveries).
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"lapimposteur/internal/amqpbridge"
	"lapimposteur/internal/audit"
	"lapimposteur/internal/eval"
	"lapimposteur/internal/gate"
	"lapimposteur/internal/lerr"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
	"lapimposteur/internal/variables"
)

// Publisher is the minimal amqp091-go surface dispatch needs, satisfied by
// *amqp.Channel. Isolated as an interface so action execution can be
// exercised without a broker in tests.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Options carries the per-action render options plus the audit sink.
type Options struct {
	Render render.Options
	Audit  *audit.Client
}

// RunAction sleeps for the action's schedule, then resolves/fills/publishes
// it. deliveryID and index are used for audit correlation only. It never
// returns a fatal error to the caller: failures are logged and reported to
// audit. Other actions for the same delivery continue independently and
// are never retried.
func RunAction(ctx context.Context, pub Publisher, action spec.ActionSpec, im spec.InputMessage, deliveryID string, index int, opts Options) {
	sched := action.Schedule.Resolve()
	if sched.Kind == spec.ScheduleDelay {
		select {
		case <-time.After(sched.Delay):
		case <-ctx.Done():
			return
		}
	}

	e := eval.NewEvaluator(eval.NewRNG())

	vars, err := variables.Resolve(ctx, e, action.Variables, im)
	if err != nil {
		log.Printf("dispatch: delivery %s action %d: resolve variables: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}

	fires, err := gate.Fires(action.When, vars)
	if err != nil {
		log.Printf("dispatch: delivery %s action %d: evaluate when: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}
	if !fires {
		log.Printf("dispatch: delivery %s action %d: when evaluated false, skipping", deliveryID, index)
		opts.auditAction(deliveryID, index, "skipped", nil)
		return
	}

	body, err := render.Payload(action.Payload, vars)
	if err != nil {
		log.Printf("dispatch: delivery %s action %d: render payload: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}

	headers, err := render.Headers(action.Headers, vars)
	if err != nil {
		log.Printf("dispatch: delivery %s action %d: render headers: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}

	route, err := render.Route(action.To, vars, opts.Render)
	if err != nil {
		log.Printf("dispatch: delivery %s action %d: render route: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}

	pubMsg := amqpbridge.Publishing([]byte(body), headers)
	if err := pub.PublishWithContext(ctx, route.Exchange, route.RoutingKey, false, false, pubMsg); err != nil {
		err = lerr.New(lerr.KindPublishFailure, fmt.Errorf("publish to exchange %q key %q: %w", route.Exchange, route.RoutingKey, err))
		log.Printf("dispatch: delivery %s action %d: %v", deliveryID, index, err)
		opts.auditAction(deliveryID, index, "failed", err)
		return
	}

	opts.auditAction(deliveryID, index, "published", nil)
}

func (o Options) auditAction(deliveryID string, index int, outcome string, err error) {
	if o.Audit == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	o.Audit.Action(deliveryID, index, outcome, msg)
}
