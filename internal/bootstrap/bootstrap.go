// Package bootstrap opens the broker connection, spawns one task per
// ReactorSpec and one scheduler for all GeneratorSpecs, and supervises
// them until shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"lapimposteur/internal/audit"
	"lapimposteur/internal/generator"
	"lapimposteur/internal/lerr"
	"lapimposteur/internal/reactor"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

// App owns a broker connection, every reactor it spawned, and the
// generator scheduler.
type App struct {
	conn       *amqp.Connection
	reactors   []*reactor.Reactor
	generators *generator.Scheduler
	audit      *audit.Client

	wg sync.WaitGroup
}

// Start connects to imp.Connection and spawns one reactor task per
// ReactorSpec plus a generator scheduler for GeneratorSpecs. Connection
// failure is fatal; per-reactor setup failures are logged and do not
// prevent the remaining reactors from running.
func Start(ctx context.Context, imp *spec.Imposter, opts render.Options, auditClient *audit.Client) (*App, error) {
	conn, err := amqp.Dial(imp.Connection)
	if err != nil {
		return nil, lerr.New(lerr.KindConnectFailure, fmt.Errorf("dial %q: %w", imp.Connection, err))
	}

	app := &App{conn: conn, audit: auditClient}

	for _, rs := range imp.Reactors {
		r := reactor.New(rs, conn, opts, auditClient)
		app.reactors = append(app.reactors, r)
		app.wg.Add(1)
		go func(r *reactor.Reactor) {
			defer app.wg.Done()
			if err := r.Run(ctx); err != nil {
				log.Printf("bootstrap: reactor setup failed, reactor terminated: %v", err)
			}
		}(r)
	}

	if len(imp.Generators) > 0 {
		genCh, err := conn.Channel()
		if err != nil {
			log.Printf("bootstrap: open generator channel: %v", err)
		} else {
			sched := generator.New(genCh, opts, auditClient)
			if err := sched.Add(imp.Generators); err != nil {
				log.Printf("bootstrap: register generators: %v", err)
			} else {
				sched.Start()
				app.generators = sched
			}
		}
	}

	return app, nil
}

// Stop cancels every reactor, stops the generator scheduler, waits for
// reactor tasks to observe cancellation, and closes the connection.
func (a *App) Stop() {
	for _, r := range a.reactors {
		r.Stop()
	}
	if a.generators != nil {
		a.generators.Stop()
	}
	a.wg.Wait()
	if a.conn != nil {
		a.conn.Close()
	}
	if a.audit != nil {
		a.audit.Close()
	}
}
