// Package pipeline processes pending msg_emails records: extraction,
// persistence of the ai_* columns and reconciliation.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/extraction"
	"github.com/mikey/email-reconciler/internal/recipient"
	"github.com/mikey/email-reconciler/internal/reconcile"
	"github.com/mikey/email-reconciler/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes batch processing
type Options struct {
	BatchSize   int
	Concurrency int
}

// DefaultOptions returns batches of 100 records on 4 workers
func DefaultOptions() Options {
	return Options{BatchSize: 100, Concurrency: 4}
}

// RecordResult is the outcome for one record
type RecordResult struct {
	Record         *core.MsgEmailRecord
	Outcome        *extraction.Outcome
	Reconciliation *core.ReconciliationResult
}

// BatchReport summarizes one ProcessPending run
type BatchReport struct {
	Listed    int
	Processed int
	Failed    int
	FromLLM   int
	Actions   map[core.SuggestedAction]int
	Metrics   validation.ExtractionMetrics
	Duration  time.Duration
}

// Processor runs extraction and reconciliation over msg_emails records
type Processor struct {
	repo       core.MsgEmailRepository
	extractor  *extraction.Extractor
	reconciler *reconcile.Reconciler
	analyzer   core.DomainAnalyzer
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewProcessor creates a new Processor. analyzer may be nil.
func NewProcessor(
	repo core.MsgEmailRepository,
	extractor *extraction.Extractor,
	reconciler *reconcile.Reconciler,
	analyzer core.DomainAnalyzer,
	opts Options,
	logger *zap.Logger,
) *Processor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOptions().BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		repo:       repo,
		extractor:  extractor,
		reconciler: reconciler,
		analyzer:   analyzer,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessRecord extracts, persists and reconciles one record. rec.AI is
// replaced by the new extraction.
func (p *Processor) ProcessRecord(ctx context.Context, rec *core.MsgEmailRecord) (*RecordResult, error) {
	input := rec.Input
	if input == "" {
		input = rec.Address
	}

	var hint *core.DomainPattern
	if p.analyzer != nil {
		if email, _ := recipient.SplitAddress(input); email != "" {
			_, domain := recipient.SplitEmail(email)
			pattern, err := p.analyzer.GetDomainPattern(ctx, domain)
			if err != nil {
				p.logger.Warn("Domain analysis failed", zap.String("domain", domain), zap.Error(err))
			} else {
				hint = pattern
			}
		}
	}

	outcome, err := p.extractor.Extract(ctx, input, hint)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", rec.ID, err)
	}

	ai := outcome.AIExtraction(p.now())
	if err := p.repo.SaveExtraction(ctx, rec.ID, ai); err != nil {
		return nil, fmt.Errorf("failed to save extraction for %s: %w", rec.ID, err)
	}
	rec.AI = ai

	result := &RecordResult{Record: rec, Outcome: outcome}
	if p.reconciler != nil {
		result.Reconciliation = p.reconciler.ReconcileMsgEmail(ctx, rec)
	}

	fields := []zap.Field{
		zap.String("msg_email_id", rec.ID),
		zap.String("email", ai.Result.Email),
		zap.String("status", string(ai.Result.ExtractionStatus)),
		zap.String("source", string(outcome.Source)),
	}
	if result.Reconciliation != nil {
		fields = append(fields,
			zap.String("action", string(result.Reconciliation.SuggestedAction)),
			zap.Float64("confidence", result.Reconciliation.Confidence),
			zap.Int("candidates", len(result.Reconciliation.Candidates)))
	}
	p.logger.Debug("Processed msg_email", fields...)

	return result, nil
}

// ProcessPending processes one batch of unprocessed records. Record
// failures are counted in the report; only listing errors are returned.
func (p *Processor) ProcessPending(ctx context.Context) (*BatchReport, error) {
	start := p.now()
	recs, err := p.repo.ListPending(ctx, p.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending records: %w", err)
	}

	report := &BatchReport{
		Listed:  len(recs),
		Actions: make(map[core.SuggestedAction]int),
	}
	results := make([]core.LLMExtractionResult, 0, len(recs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i := range recs {
		rec := &recs[i]
		g.Go(func() error {
			res, err := p.ProcessRecord(ctx, rec)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				p.logger.Error("Failed to process msg_email", zap.String("msg_email_id", rec.ID), zap.Error(err))
				return nil
			}
			report.Processed++
			if res.Outcome.Source == extraction.SourceLLM {
				report.FromLLM++
			}
			if res.Reconciliation != nil {
				report.Actions[res.Reconciliation.SuggestedAction]++
			}
			results = append(results, res.Record.AI.Result)
			return nil
		})
	}
	_ = g.Wait()

	report.Metrics = p.extractor.Thresholds().Metrics(results)
	report.Duration = p.now().Sub(start)

	if report.Listed > 0 {
		p.logger.Info("Processed pending msg_emails",
			zap.Int("listed", report.Listed),
			zap.Int("processed", report.Processed),
			zap.Int("failed", report.Failed),
			zap.Int("from_llm", report.FromLLM),
			zap.Float64("average_confidence", report.Metrics.AverageConfidence),
			zap.Duration("duration", report.Duration))
	}
	return report, nil
}

// Run calls ProcessPending immediately and then every interval until ctx is
// done
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.ProcessPending(ctx); err != nil {
			p.logger.Error("Batch processing failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
