package ports

import (
	"context"

	"github.com/mikey/email-reconciler/internal/core"
)

// IntakeResult is the outcome for one recipient segment of an ingested message
type IntakeResult struct {
	Record         *core.MsgEmailRecord
	Parsed         core.ParsedRecipient
	Validation     *core.ValidationResult
	Reconciliation *core.ReconciliationResult
}

// EmailIntake defines the interface for message intake
type EmailIntake interface {
	// ProcessMessage records every From/To/Cc segment of a message and reconciles it
	ProcessMessage(ctx context.Context, msg *core.Message) ([]IntakeResult, error)

	// Start starts the intake service
	Start() error

	// Stop stops the intake service
	Stop() error
}
