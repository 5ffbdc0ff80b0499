package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonesEri07/reqcheck-sub002/internal/app"
	"github.com/JonesEri07/reqcheck-sub002/internal/config"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/scheduler"
)

func main() {
	once := flag.String("once", "", "run one batch for the given frequency (HOURLY, DAILY, WEEKLY) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	container, err := app.NewContainer(cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = container.Close()
	}()

	if f := strings.TrimSpace(*once); f != "" {
		runOnce(container, integration.SyncFrequency(strings.ToUpper(f)))
		return
	}

	sched := scheduler.New(container.Batch, cfg.Sync.BatchTimeout, container.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	sched.Stop()
}

func runOnce(container *app.Container, frequency integration.SyncFrequency) {
	ctx := context.Background()
	if container.Config.Sync.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, container.Config.Sync.BatchTimeout)
		defer cancel()
	}

	summary, err := container.SyncUC.RunBatch(ctx, frequency)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}
	log.Printf("batch done processed=%d succeeded=%d failed=%d created=%d updated=%d",
		summary.IntegrationsProcessed, summary.IntegrationsSucceeded,
		summary.IntegrationsFailed, summary.JobsCreated, summary.JobsUpdated)
}
