package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mikey/email-reconciler/internal/adapters/intake"
	"github.com/mikey/email-reconciler/internal/adapters/store"
	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/di"
	"github.com/mikey/email-reconciler/internal/ports"
	"github.com/mikey/email-reconciler/internal/preprocess"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	emailIntake ports.EmailIntake,
	recorder *intake.Recorder,
	llmClient core.LLMClient,
	db *store.SQLStore,
) error {
	defer logger.Sync()
	defer db.Close()
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	msg, err := readInput(flags, logger)
	if err != nil {
		return err
	}

	provider := cfg.GetString("llm.provider")
	if provider == "" {
		provider = "none"
	}
	logger.Info("Parsing recipients",
		zap.String("message_id", msg.ID),
		zap.String("provider", provider))

	ctx := context.Background()
	if flags.JSONOutput {
		results, err := recorder.ProcessMessage(ctx, msg)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(results); encErr != nil {
			return encErr
		}
		return err
	}

	if flags.Verbose {
		printLLMInputs(intake.Segments(msg))
	}
	_, err = emailIntake.ProcessMessage(ctx, msg)
	return err
}

// printLLMInputs shows what the LLM is sent for each recipient
func printLLMInputs(segments []string) {
	fmt.Printf("\n=== LLM input ===\n")
	for _, in := range preprocess.BatchPreprocessForLLM(segments, nil) {
		fmt.Printf("%s\n", in.RawInput)
		fmt.Printf("  email: %s\n", in.CleanedEmail)
		fmt.Printf("  display: %s\n", in.CleanedDisplay)
		fmt.Printf("  domain: %s local: %s\n", in.Domain, in.LocalPart)
	}
}

// readInput builds a message from -input, -file or stdin
func readInput(flags *di.CLIFlags, logger *zap.Logger) (*core.Message, error) {
	if flags.Input != "" {
		return &core.Message{
			ID:      uuid.NewString(),
			To:      []string{flags.Input},
			Headers: map[string][]string{"To": {flags.Input}},
		}, nil
	}

	var r io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		r = os.Stdin
		logger.Info("Reading email from stdin")
	}

	return intake.ReadMessage(bufio.NewReader(r), "", nil)
}
