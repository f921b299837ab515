// Package validation is the trust boundary for LLM name extractions. It
// rejects impossible results, sanitizes accepted ones and recomputes their
// status.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
	"go.uber.org/zap"
)

// DefaultMaxNameLength caps name1 and name2, in runes
const DefaultMaxNameLength = 60

var (
	urlPattern    = regexp.MustCompile(`(?i)^(https?://|ftp://|www\.)\S*$`)
	// "acme.com", "mail.acme.co.uk"
	hostPattern   = regexp.MustCompile(`(?i)^[\p{L}\d-]{2,}(\.[\p{L}\d-]+)*\.[a-z]{2,}$`)
	digitsPattern = regexp.MustCompile(`^[0-9\s]+$`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// Validator checks and sanitizes extraction results
type Validator struct {
	thresholds    Thresholds
	maxNameLength int
	logger        *zap.Logger
}

// NewValidator creates a new Validator
func NewValidator(thresholds Thresholds, maxNameLength int, logger *zap.Logger) *Validator {
	if maxNameLength <= 0 {
		maxNameLength = DefaultMaxNameLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		thresholds:    thresholds,
		maxNameLength: maxNameLength,
		logger:        logger,
	}
}

var defaultValidator = NewValidator(DefaultThresholds(), DefaultMaxNameLength, nil)

// ValidateExtractionResult validates candidate with the default settings
func ValidateExtractionResult(candidate *core.LLMExtractionResult) core.ValidationResult {
	return defaultValidator.Validate(candidate)
}

// Thresholds returns the confidence bands used by the validator
func (v *Validator) Thresholds() Thresholds {
	return v.thresholds
}

// Validate rejects candidates with impossible names or a malformed email.
// Accepted candidates come back sanitized in SanitizedResult.
func (v *Validator) Validate(candidate *core.LLMExtractionResult) core.ValidationResult {
	result := core.ValidationResult{}
	if candidate == nil {
		result.Errors = append(result.Errors, "extraction result is empty")
		return result
	}

	result.Errors = append(result.Errors, v.checkName("name1", candidate.Name1)...)
	result.Errors = append(result.Errors, v.checkName("name2", candidate.Name2)...)

	email := strings.ToLower(strings.TrimSpace(candidate.Email))
	if email != "" && !recipient.IsValidEmail(email) {
		result.Errors = append(result.Errors, fmt.Sprintf("email %q is not a valid email format", candidate.Email))
	}

	if len(result.Errors) > 0 {
		v.logger.Debug("Extraction rejected",
			zap.String("email", candidate.Email),
			zap.Strings("errors", result.Errors))
		return result
	}

	local, domain := "", strings.ToLower(strings.TrimSpace(candidate.Domain))
	if email != "" {
		local, domain = recipient.SplitEmail(email)
	}

	if candidate.IsPersonal && recipient.IsServiceLocalPart(local) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("is_personal is true but local part %q is a service address", local))
	}

	confidence := candidate.Confidence
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("confidence %v out of range, clamped", candidate.Confidence))
		confidence = clamp(confidence)
	}

	sanitized := &core.LLMExtractionResult{
		Name1:      CapitalizeProper(collapse(candidate.Name1)),
		Name2:      CapitalizeProper(collapse(candidate.Name2)),
		Genre:      NormalizeGenre(string(candidate.Genre)),
		Email:      email,
		Domain:     domain,
		IsPersonal: candidate.IsPersonal,
		Confidence: math.Round(confidence*100) / 100,
		Reasoning:  strings.TrimSpace(candidate.Reasoning),
	}

	var first, last string
	if sanitized.IsPersonal {
		if segs := localPartSegments(local); len(segs) > 0 {
			first = segs[0]
			if len(segs) > 1 {
				last = segs[len(segs)-1]
			}
		}
	}
	sanitized.Name1Pre = ComputeInitial(sanitized.Name1, first)
	sanitized.Name2Pre = ComputeInitial(sanitized.Name2, last)
	sanitized.Name3 = ComputeName3(local, sanitized.IsPersonal)
	sanitized.ExtractionStatus = v.thresholds.Classify(sanitized)

	result.IsValid = true
	result.SanitizedResult = sanitized
	return result
}

func (v *Validator) checkName(field, value string) []string {
	name := strings.TrimSpace(value)
	if name == "" {
		return nil
	}

	var errs []string
	if strings.Contains(name, "@") {
		errs = append(errs, fmt.Sprintf("%s contains '@' and looks like an email address", field))
	}
	if n := utf8.RuneCountInString(name); n > v.maxNameLength {
		errs = append(errs, fmt.Sprintf("%s is too long (%d > %d characters)", field, n, v.maxNameLength))
	}
	if recipient.IsServiceLocalPart(name) {
		errs = append(errs, fmt.Sprintf("%s %q matches a service address prefix", field, name))
	}
	if urlPattern.MatchString(name) {
		errs = append(errs, fmt.Sprintf("%s is a URL", field))
	} else if hostPattern.MatchString(name) {
		errs = append(errs, fmt.Sprintf("%s looks like a host name", field))
	}
	if digitsPattern.MatchString(name) {
		errs = append(errs, fmt.Sprintf("%s is all digits", field))
	}
	return errs
}

func collapse(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func clamp(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
