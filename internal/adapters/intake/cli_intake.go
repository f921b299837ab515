package intake

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/ports"
	"go.uber.org/zap"
)

// CLIIntake records a message given on the command line and prints what
// happened to each recipient
type CLIIntake struct {
	*Recorder
	logger  *zap.Logger
	out     io.Writer
	verbose bool
}

var _ ports.EmailIntake = (*CLIIntake)(nil)

// NewCLIIntake creates a new CLI intake
func NewCLIIntake(recorder *Recorder, logger *zap.Logger, out io.Writer, verbose bool) *CLIIntake {
	return &CLIIntake{
		Recorder: recorder,
		logger:   logger,
		out:      out,
		verbose:  verbose,
	}
}

// ProcessMessage records msg and prints a summary per recipient
func (c *CLIIntake) ProcessMessage(ctx context.Context, msg *core.Message) ([]ports.IntakeResult, error) {
	c.logger.Debug("Processing message", zap.String("message_id", msg.ID))

	fmt.Fprintf(c.out, "\n=== Message ===\n")
	fmt.Fprintf(c.out, "From: %s\n", msg.From)
	fmt.Fprintf(c.out, "To: %v\n", msg.To)
	if len(msg.Cc) > 0 {
		fmt.Fprintf(c.out, "Cc: %v\n", msg.Cc)
	}
	if msg.Subject != "" {
		fmt.Fprintf(c.out, "Subject: %s\n", msg.Subject)
	}

	results, err := c.Recorder.ProcessMessage(ctx, msg)
	for _, r := range results {
		PrintResult(c.out, r, c.verbose)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return results, err
}

// PrintResult writes a human readable summary of one intake result
func PrintResult(out io.Writer, r ports.IntakeResult, verbose bool) {
	fmt.Fprintf(out, "\n--- %s ---\n", r.Parsed.RawInput)
	fmt.Fprintf(out, "Email: %s\n", r.Parsed.Email)
	fmt.Fprintf(out, "Personal: %t\n", r.Parsed.IsPersonal)
	if r.Parsed.CompanyName != "" {
		fmt.Fprintf(out, "Company: %s\n", r.Parsed.CompanyName)
	}
	fmt.Fprintf(out, "Parser confidence: %.2f\n", r.Parsed.Confidence)

	if v := r.Validation; v != nil {
		if s := v.SanitizedResult; s != nil {
			fmt.Fprintf(out, "Name: %s %s %s\n", s.Genre, s.Name1, s.Name2)
			fmt.Fprintf(out, "Status: %s (%.2f)\n", s.ExtractionStatus, s.Confidence)
			if s.Name3 != "" {
				fmt.Fprintf(out, "Name3: %s\n", s.Name3)
			}
		}
		for _, e := range v.Errors {
			fmt.Fprintf(out, "Error: %s\n", e)
		}
		if verbose {
			for _, w := range v.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}
		}
	}

	if rec := r.Reconciliation; rec != nil {
		fmt.Fprintf(out, "Action: %s (confidence %.4f)\n", rec.SuggestedAction, rec.Confidence)
		if rec.IsSharedEmail {
			fmt.Fprintf(out, "Shared mail domain\n")
		}
		for i, cand := range rec.Candidates {
			if !verbose && i >= 3 {
				break
			}
			fmt.Fprintf(out, "  candidate %s score %.4f %v\n", cand.UserID, cand.Score, cand.MatchFactors)
		}
	}
}

// Start is a no-op for the CLI intake
func (c *CLIIntake) Start() error {
	return nil
}

// Stop is a no-op for the CLI intake
func (c *CLIIntake) Stop() error {
	return nil
}
