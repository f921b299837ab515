// Package extraction turns a raw header segment into a validated name
// extraction, asking the LLM first and falling back to the structural
// parser.
package extraction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/preprocess"
	"github.com/mikey/email-reconciler/internal/recipient"
	"github.com/mikey/email-reconciler/internal/validation"
	"go.uber.org/zap"
)

// Version is written to ai_version
const Version = "1"

// Source tells where an extraction came from
type Source string

const (
	SourceLLM        Source = "llm"
	SourceStructural Source = "structural"
)

// Outcome is the validated extraction for one header segment
type Outcome struct {
	Validation core.ValidationResult
	Source     Source
	Model      string
	Input      core.LLMInput
	Parsed     core.ParsedRecipient
	// LLMErrors holds the validator errors of a rejected LLM candidate
	LLMErrors []string
}

// Extractor runs the LLM → validator → fallback chain
type Extractor struct {
	llm       core.LLMClient
	validator *validation.Validator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExtractor creates a new Extractor. llm may be nil, in which case only
// the structural parser is used.
func NewExtractor(llm core.LLMClient, validator *validation.Validator, timeout time.Duration, logger *zap.Logger) *Extractor {
	if validator == nil {
		validator = validation.NewValidator(validation.DefaultThresholds(), validation.DefaultMaxNameLength, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		llm:       llm,
		validator: validator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Thresholds returns the validator's confidence bands
func (e *Extractor) Thresholds() validation.Thresholds {
	return e.validator.Thresholds()
}

// Extract produces a validated extraction for raw. It only fails when ctx is
// done; LLM errors degrade to the structural extraction.
func (e *Extractor) Extract(ctx context.Context, raw string, hint *core.DomainPattern) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Outcome{
		Input:  preprocess.PreprocessForLLM(raw, hint),
		Parsed: recipient.ParseRecipient(raw),
	}

	if e.llm != nil && out.Input.CleanedEmail != "" {
		candidate, err := e.callLLM(ctx, &out.Input)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("LLM extraction failed, using structural parse",
				zap.String("email", out.Input.CleanedEmail),
				zap.String("model", e.llm.ModelName()),
				zap.Error(err))
		default:
			v := e.validator.Validate(candidate)
			if v.IsValid {
				out.Validation = v
				out.Source = SourceLLM
				out.Model = e.llm.ModelName()
				return out, nil
			}
			out.LLMErrors = v.Errors
			e.logger.Info("LLM extraction rejected, using structural parse",
				zap.String("email", out.Input.CleanedEmail),
				zap.Strings("errors", v.Errors))
		}
	}

	out.Validation = e.validator.Validate(structuralCandidate(out.Parsed))
	out.Source = SourceStructural
	return out, nil
}

func (e *Extractor) callLLM(ctx context.Context, in *core.LLMInput) (*core.LLMExtractionResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	candidate, err := e.llm.ParseRecipient(ctx, in)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, errors.New("empty LLM extraction")
	}
	// the preprocessed address wins over the model's echo of it
	candidate.Email = in.CleanedEmail
	candidate.Domain = in.Domain
	return candidate, nil
}

func structuralCandidate(p core.ParsedRecipient) *core.LLMExtractionResult {
	return &core.LLMExtractionResult{
		Name1:      p.GivenName,
		Name2:      p.Surname,
		Genre:      recipient.MapTitleToGenre(p.Title),
		Email:      p.Email,
		Domain:     p.Domain,
		IsPersonal: p.IsPersonal,
		Confidence: p.Confidence,
		Reasoning:  "structural parse",
	}
}

// Notes summarizes an outcome for ai_notes
func (o *Outcome) Notes() string {
	parts := []string{"source=" + string(o.Source)}
	if r := o.Validation.SanitizedResult; r != nil && r.Reasoning != "" {
		parts = append(parts, r.Reasoning)
	}
	if len(o.Validation.Warnings) > 0 {
		parts = append(parts, "warnings: "+strings.Join(o.Validation.Warnings, "; "))
	}
	if len(o.Validation.Errors) > 0 {
		parts = append(parts, "rejected: "+strings.Join(o.Validation.Errors, "; "))
	}
	if len(o.LLMErrors) > 0 {
		parts = append(parts, "llm rejected: "+strings.Join(o.LLMErrors, "; "))
	}
	return strings.Join(parts, " | ")
}

// AIExtraction converts the outcome into the ai_* columns. A rejected
// extraction is recorded as not_applicable.
func (o *Outcome) AIExtraction(now time.Time) *core.AIExtraction {
	ai := &core.AIExtraction{
		Notes:       o.Notes(),
		Version:     Version,
		Model:       o.Model,
		ProcessedAt: now,
	}
	if r := o.Validation.SanitizedResult; o.Validation.IsValid && r != nil {
		ai.Result = *r
	} else {
		ai.Result = core.LLMExtractionResult{
			Email:            o.Input.CleanedEmail,
			Domain:           o.Input.Domain,
			ExtractionStatus: core.StatusNotApplicable,
		}
	}
	if o.Input.DomainConvention != nil {
		ai.DomainConvention = o.Input.DomainConvention.Convention
	}
	return ai
}
