// Package reactor implements the per-reactor state machine, consumer
// setup, and per-delivery fan-out of scheduled publications: connect,
// open a channel, declare and bind the queue, consume, then hand each
// delivery to one independent task per action.
package reactor

import (
	"context"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"lapimposteur/internal/amqpbridge"
	"lapimposteur/internal/audit"
	"lapimposteur/internal/dispatch"
	"lapimposteur/internal/lerr"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

// State is one node of the state machine.
type State int

const (
	Created State = iota
	ChannelOpen
	QueueDeclared
	QueueBound
	Consuming
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case ChannelOpen:
		return "ChannelOpen"
	case QueueDeclared:
		return "QueueDeclared"
	case QueueBound:
		return "QueueBound"
	case Consuming:
		return "Consuming"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Reactor runs one ReactorSpec against a shared AMQP connection: a
// dedicated consumer channel and a dedicated publisher channel, isolating
// publish flow from consumer flow.
type Reactor struct {
	spec   spec.ReactorSpec
	conn   *amqp.Connection
	opts   render.Options
	audit  *audit.Client

	mu          sync.Mutex
	state       State
	consumeCh   *amqp.Channel
	publishCh   *amqp.Channel
	cancel      context.CancelFunc
}

// New constructs a Reactor in the Created state.
func New(rs spec.ReactorSpec, conn *amqp.Connection, opts render.Options, auditClient *audit.Client) *Reactor {
	return &Reactor{spec: rs, conn: conn, opts: opts, audit: auditClient, state: Created}
}

func (r *Reactor) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	if r.audit != nil {
		r.audit.ReactorLifecycle(r.spec.Queue, s.String(), "")
	}
}

// State reports the reactor's current lifecycle state.
func (r *Reactor) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run drives the reactor through its setup transitions and then consumes
// until ctx is cancelled or a fatal setup error occurs. Any setup failure
// is returned so the caller (bootstrapper) can log it against this reactor
// specifically without affecting others.
func (r *Reactor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	consumeCh, err := r.conn.Channel()
	if err != nil {
		r.fail(lerr.New(lerr.KindChannelSetup, fmt.Errorf("open consumer channel: %w", err)))
		return lerr.New(lerr.KindChannelSetup, err)
	}
	publishCh, err := r.conn.Channel()
	if err != nil {
		consumeCh.Close()
		r.fail(lerr.New(lerr.KindChannelSetup, fmt.Errorf("open publisher channel: %w", err)))
		return lerr.New(lerr.KindChannelSetup, err)
	}
	r.consumeCh = consumeCh
	r.publishCh = publishCh
	r.setState(ChannelOpen)

	_, err = consumeCh.QueueDeclare(r.spec.Queue, false, true, false, false, nil)
	if err != nil {
		r.fail(lerr.New(lerr.KindQueueDeclare, fmt.Errorf("declare queue %q: %w", r.spec.Queue, err)))
		return lerr.New(lerr.KindQueueDeclare, err)
	}
	r.setState(QueueDeclared)

	if err := consumeCh.QueueBind(r.spec.Queue, r.spec.RoutingKey, r.spec.Exchange, false, nil); err != nil {
		r.fail(lerr.New(lerr.KindQueueBind, fmt.Errorf("bind queue %q to %q/%q: %w", r.spec.Queue, r.spec.Exchange, r.spec.RoutingKey, err)))
		return lerr.New(lerr.KindQueueBind, err)
	}
	r.setState(QueueBound)

	deliveries, err := consumeCh.Consume(r.spec.Queue, "", false, false, false, false, nil)
	if err != nil {
		r.fail(lerr.New(lerr.KindConsumeSetup, fmt.Errorf("consume %q: %w", r.spec.Queue, err)))
		return lerr.New(lerr.KindConsumeSetup, err)
	}
	r.setState(Consuming)

	r.consume(ctx, deliveries)
	r.setState(Terminated)
	return nil
}

func (r *Reactor) fail(err error) {
	r.mu.Lock()
	r.state = Terminated
	r.mu.Unlock()
	log.Printf("reactor %s: %v", r.spec.Queue, err)
	if r.audit != nil {
		r.audit.ReactorLifecycle(r.spec.Queue, Terminated.String(), err.Error())
	}
}

func (r *Reactor) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case d, ok := <-deliveries:
			if !ok {
				wg.Wait()
				return
			}
			r.handleDelivery(ctx, d, &wg)
		}
	}
}

// handleDelivery decodes d, spawns one independent task per action, and
// acks immediately once all tasks are scheduled, not after they complete.
func (r *Reactor) handleDelivery(ctx context.Context, d amqp.Delivery, wg *sync.WaitGroup) {
	im := amqpbridge.Decode(d)
	deliveryID := fmt.Sprintf("%s:%d", r.spec.Queue, d.DeliveryTag)

	for i, action := range r.spec.Action {
		wg.Add(1)
		go func(i int, action spec.ActionSpec) {
			defer wg.Done()
			dispatch.RunAction(ctx, r.publishCh, action, im, deliveryID, i, dispatch.Options{Render: r.opts, Audit: r.audit})
		}(i, action)
	}

	if err := d.Ack(false); err != nil {
		log.Printf("reactor %s: ack delivery %d: %v", r.spec.Queue, d.DeliveryTag, lerr.New(lerr.KindAckFailure, err))
	}
	if r.audit != nil {
		r.audit.Delivery(deliveryID, len(r.spec.Action), true)
	}
}

// Stop cancels the reactor's consume loop and closes its channels.
// The cancellation also ends per-action tasks still waiting out their
// schedule delay, and a task that reaches its publish after the publisher
// channel is closed fails to publish.
func (r *Reactor) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	consumeCh := r.consumeCh
	publishCh := r.publishCh
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if consumeCh != nil {
		consumeCh.Close()
	}
	if publishCh != nil {
		publishCh.Close()
	}
}
