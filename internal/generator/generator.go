// Package generator schedules GeneratorSpec.action lists on their cron
// expression (robfig/cron/v3, seconds resolution, stop-and-drain
// shutdown), firing each generator's actions through the same pipeline a
// reactor delivery uses but with a synthetic empty input message.
package generator

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	"lapimposteur/internal/audit"
	"lapimposteur/internal/dispatch"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

// Scheduler runs every GeneratorSpec of an Imposter on its own cron entry.
type Scheduler struct {
	cron *cron.Cron
	ch   *amqp.Channel
	opts render.Options
	audit *audit.Client
}

// New builds a seconds-resolution scheduler publishing on ch.
func New(ch *amqp.Channel, opts render.Options, auditClient *audit.Client) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		ch:    ch,
		opts:  opts,
		audit: auditClient,
	}
}

// Add registers one cron job per GeneratorSpec. Returns an error if any
// cron expression fails to parse; callers should treat that as a config
// error rather than a runtime one.
func (s *Scheduler) Add(generators []spec.GeneratorSpec) error {
	for i, g := range generators {
		g := g
		genID := fmt.Sprintf("generator[%d]", i)
		_, err := s.cron.AddFunc(g.Cron, func() {
			s.fire(genID, g)
		})
		if err != nil {
			return fmt.Errorf("generator: add cron job %q (%s): %w", g.Cron, genID, err)
		}
	}
	return nil
}

// fire synthesizes an empty InputMessage and runs every action of g through
// the same resolve/fill/publish pipeline a reactor delivery uses, each
// independently scheduled per its own action.schedule.seconds delay.
// There is no underlying delivery, so no ack is involved.
func (s *Scheduler) fire(genID string, g spec.GeneratorSpec) {
	im := spec.InputMessage{Payload: []byte{}, Headers: spec.Headers{}}
	ctx := context.Background()

	for i, action := range g.Action {
		go dispatch.RunAction(ctx, s.ch, action, im, genID, i, dispatch.Options{Render: s.opts, Audit: s.audit})
	}
}

// Start begins firing registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits up to 30s for in-flight jobs to drain.
func (s *Scheduler) Stop() {
	doneCtx := s.cron.Stop()
	select {
	case <-doneCtx.Done():
	case <-time.After(30 * time.Second):
		log.Printf("generator: timed out waiting for jobs to finish")
	}
}
