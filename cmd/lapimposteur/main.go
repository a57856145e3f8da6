package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lapimposteur/internal/audit"
	"lapimposteur/internal/bootstrap"
	"lapimposteur/internal/lerr"
	"lapimposteur/internal/render"
	"lapimposteur/internal/spec"
)

func main() {
	configPath := flag.String("config", "", "Path to the imposter JSON spec")
	flag.StringVar(configPath, "c", "", "Path to the imposter JSON spec (shorthand)")
	natsURL := flag.String("nats-url", envOrDefault("LAPIMPOSTEUR_NATS_URL", ""), "NATS server URL for audit logging (optional)")
	compatInvalidKey := flag.Bool("compat-invalid-key", false, "substitute \"invalid.key\" instead of failing with ReplyToMissing")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("lapimposteur: -c/--config is required")
	}

	imp, err := spec.Load(*configPath)
	if err != nil {
		log.Fatalf("lapimposteur: %v", err)
	}

	auditClient := audit.Connect(*natsURL)
	opts := render.Options{CompatInvalidKey: *compatInvalidKey}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.Start(ctx, imp, opts, auditClient)
	if err != nil {
		if lerr.Is(err, lerr.KindConnectFailure) {
			log.Fatalf("lapimposteur: %v", err)
		}
		log.Fatalf("lapimposteur: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("lapimposteur: received %v, shutting down", sig)

	cancel()
	app.Stop()
	os.Exit(0)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
