package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-reconciler/internal/adapters/store"
	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/di"
	"github.com/mikey/email-reconciler/internal/pipeline"
	"github.com/mikey/email-reconciler/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	emailIntake ports.EmailIntake,
	processor *pipeline.Processor,
	llmClient core.LLMClient,
	patternCache core.PatternCache,
	db *store.SQLStore,
) error {
	defer logger.Sync()

	batchCfg, err := cfg.GetBatch()
	if err != nil {
		return err
	}

	// Start the intake
	if err := emailIntake.Start(); err != nil {
		logger.Error("Failed to start intake", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		processor.Run(ctx, batchCfg.Interval)
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the intake before the processor so no new records arrive
	if err := emailIntake.Stop(); err != nil {
		logger.Error("Failed to stop intake", zap.Error(err))
	}
	cancel()
	<-done

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := patternCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if err := db.Close(); err != nil {
		logger.Error("Failed to close store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
