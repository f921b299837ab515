package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/pipeline"
	"github.com/mikey/email-reconciler/internal/ports"
	"github.com/mikey/email-reconciler/internal/recipient"
	"go.uber.org/zap"
)

// Recorder stores every recipient segment of a message as a msg_emails
// record and processes it right away
type Recorder struct {
	repo      core.MsgEmailRepository
	processor *pipeline.Processor
	logger    *zap.Logger
	newID     func() string
	now       func() time.Time
}

// NewRecorder creates a new Recorder
func NewRecorder(repo core.MsgEmailRepository, processor *pipeline.Processor, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		processor: processor,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// ProcessMessage records and processes every From/To/Cc segment of msg.
// Processing failures leave the record pending for the batch processor;
// only persistence failures are returned.
func (r *Recorder) ProcessMessage(ctx context.Context, msg *core.Message) ([]ports.IntakeResult, error) {
	segments := Segments(msg)
	results := make([]ports.IntakeResult, 0, len(segments))

	for _, seg := range segments {
		parsed := recipient.ParseRecipient(seg)
		rec := &core.MsgEmailRecord{
			ID:        r.newID(),
			Input:     seg,
			Address:   parsed.Email,
			CreatedAt: r.now(),
		}
		if err := r.repo.Insert(ctx, rec); err != nil {
			return results, fmt.Errorf("failed to record %q from message %s: %w", seg, msg.ID, err)
		}

		result := ports.IntakeResult{Record: rec, Parsed: parsed}
		res, err := r.processor.ProcessRecord(ctx, rec)
		if err != nil {
			r.logger.Warn("Failed to process recipient, left pending",
				zap.String("message_id", msg.ID),
				zap.String("msg_email_id", rec.ID),
				zap.Error(err))
		} else {
			result.Validation = &res.Outcome.Validation
			result.Reconciliation = res.Reconciliation
		}
		results = append(results, result)
	}

	r.logger.Info("Recorded message recipients",
		zap.String("message_id", msg.ID),
		zap.String("subject", msg.Subject),
		zap.Int("segments", len(segments)))
	return results, nil
}
