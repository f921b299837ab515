// Package reconcile matches a msg_emails record against the user directory
// and proposes an action.
package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
	"go.uber.org/zap"
)

// maxLLMCandidates bounds the directory users shown to the LLM matcher
const maxLLMCandidates = 10

// Options tunes the decision bands
type Options struct {
	// LinkThreshold is the exclusive lower bound for link_user
	LinkThreshold float64
	// CreateThreshold is the exclusive upper bound for create_user
	CreateThreshold float64
	// LLMTimeout bounds each LLM matching call
	LLMTimeout time.Duration
}

// DefaultOptions returns the 0.8 / 0.2 bands and a 10s LLM timeout
func DefaultOptions() Options {
	return Options{
		LinkThreshold:   0.8,
		CreateThreshold: 0.2,
		LLMTimeout:      10 * time.Second,
	}
}

// Reconciler proposes link/create/review actions for msg_emails records
type Reconciler struct {
	directory core.UserDirectory
	analyzer  core.DomainAnalyzer
	matcher   core.LLMMatcher
	opts      Options
	logger    *zap.Logger
}

// NewReconciler creates a new Reconciler. analyzer and matcher may be nil.
func NewReconciler(directory core.UserDirectory, analyzer core.DomainAnalyzer, matcher core.LLMMatcher, opts Options, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		directory: directory,
		analyzer:  analyzer,
		matcher:   matcher,
		opts:      opts,
		logger:    logger,
	}
}

// ReconcileMsgEmail never fails: collaborator errors are logged and treated
// as missing evidence, unusable input resolves to manual_review.
func (r *Reconciler) ReconcileMsgEmail(ctx context.Context, msg *core.MsgEmailRecord) *core.ReconciliationResult {
	result := &core.ReconciliationResult{
		Candidates:      []core.MatchCandidate{},
		SuggestedAction: core.ActionManualReview,
	}
	if msg == nil {
		return result
	}
	result.MsgEmailID = msg.ID

	parsed := parseRecord(msg)
	if parsed.Email == "" || parsed.Confidence == 0 {
		r.logger.Debug("Unusable recipient, deferring to review",
			zap.String("msg_email_id", msg.ID),
			zap.String("input", msg.Input))
		return result
	}

	logger := r.logger.With(zap.String("msg_email_id", msg.ID), zap.String("email", parsed.Email))

	var pattern *core.DomainPattern
	if r.analyzer != nil {
		p, err := r.analyzer.GetDomainPattern(ctx, parsed.Domain)
		if err != nil {
			logger.Warn("Domain analysis failed", zap.Error(err))
		} else {
			pattern = p
		}
	}
	result.IsSharedEmail = pattern != nil && pattern.IsSharedDomain

	users, lookupFailed := r.lookup(ctx, logger, parsed, result.IsSharedEmail)
	if len(users) == 0 {
		if lookupFailed {
			logger.Warn("Directory lookup failed with no candidates, deferring to review")
			return result
		}
		result.SuggestedAction = core.ActionCreateUser
		return result
	}

	ev := newEvidence()
	byID := make(map[string]core.UserRecord, len(users))
	names := nameSources(parsed, msg)
	for _, u := range users {
		byID[u.ID] = u
		ev.track(u.ID)
		scoreUser(ev, u, parsed, names, pattern, result.IsSharedEmail)
	}

	candidates := ev.rank()
	if r.matcher != nil && len(candidates) > 0 && !candidates[0].HasFactor(core.FactorEmailExact) {
		if r.consultLLM(ctx, logger, ev, candidates, byID, parsed, msg, pattern) {
			candidates = ev.rank()
		}
	}

	result.Candidates = candidates
	result.SuggestedAction, result.Confidence = r.decide(candidates)

	logger.Debug("Reconciled",
		zap.String("action", string(result.SuggestedAction)),
		zap.Float64("confidence", result.Confidence),
		zap.Int("candidates", len(candidates)),
		zap.Bool("shared", result.IsSharedEmail))

	return result
}

// parseRecord reads the recipient from input, letting a valid stored
// address override the parsed one
func parseRecord(msg *core.MsgEmailRecord) core.ParsedRecipient {
	parsed := recipient.ParseRecipient(msg.Input)
	addr := strings.ToLower(strings.TrimSpace(msg.Address))
	if !recipient.IsValidEmail(addr) || addr == parsed.Email {
		return parsed
	}
	if parsed.Email == "" {
		return recipient.ParseRecipient(addr)
	}
	parsed.Email = addr
	parsed.LocalPart, parsed.Domain = recipient.SplitEmail(addr)
	return parsed
}

// lookup unions exact-email and domain-sibling users, de-duplicated by id.
// The bool reports whether any lookup failed.
func (r *Reconciler) lookup(ctx context.Context, logger *zap.Logger, parsed core.ParsedRecipient, shared bool) ([]core.UserRecord, bool) {
	var (
		users  []core.UserRecord
		seen   = make(map[string]bool)
		failed bool
	)
	appendUnique := func(us []core.UserRecord) {
		for _, u := range us {
			if u.ID == "" || seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			users = append(users, u)
		}
	}

	exact, err := r.directory.GetUsersByEmail(ctx, parsed.Email)
	if err != nil {
		logger.Warn("Exact email lookup failed", zap.Error(err))
		failed = true
	}
	appendUnique(exact)

	if !shared {
		siblings, err := r.directory.GetUsersByDomain(ctx, parsed.Domain)
		if err != nil {
			logger.Warn("Domain sibling lookup failed", zap.Error(err))
			failed = true
		}
		appendUnique(siblings)
	}
	return users, failed
}

func (r *Reconciler) consultLLM(ctx context.Context, logger *zap.Logger, ev *evidence, candidates []core.MatchCandidate, byID map[string]core.UserRecord, parsed core.ParsedRecipient, msg *core.MsgEmailRecord, pattern *core.DomainPattern) bool {
	mc := &core.MatchContext{
		Recipient:     parsed,
		DomainPattern: pattern,
	}
	if msg.AI != nil {
		extraction := msg.AI.Result
		mc.Extraction = &extraction
	}
	for i, c := range candidates {
		if i == maxLLMCandidates {
			break
		}
		mc.Candidates = append(mc.Candidates, byID[c.UserID])
	}

	callCtx := ctx
	if r.opts.LLMTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.opts.LLMTimeout)
		defer cancel()
	}

	match, err := r.matcher.MatchUser(callCtx, mc)
	if err != nil {
		logger.Warn("LLM matching failed, continuing without it", zap.Error(err))
		return false
	}
	if match == nil {
		return false
	}

	confidence := clamp(match.Confidence)
	merged := false
	if match.BestMatchID != "" && ev.has(match.BestMatchID) {
		ev.add(match.BestMatchID, core.FactorLLMMatch, confidence*llmMatchWeight)
		merged = true
	} else if match.BestMatchID != "" {
		logger.Debug("LLM picked a user outside the candidate set", zap.String("user_id", match.BestMatchID))
	}
	for _, id := range match.AlternativeMatchIDs {
		if id == match.BestMatchID || !ev.has(id) {
			continue
		}
		ev.add(id, core.FactorLLMAlternative, confidence*llmAlternativeWeight)
		merged = true
	}

	logger.Debug("LLM match merged",
		zap.String("best_match_id", match.BestMatchID),
		zap.Float64("llm_confidence", confidence),
		zap.String("model", match.ModelUsed))
	return merged
}

func (r *Reconciler) decide(candidates []core.MatchCandidate) (core.SuggestedAction, float64) {
	if len(candidates) == 0 {
		return core.ActionCreateUser, 0
	}
	top := candidates[0]

	exact := 0
	for _, c := range candidates {
		if c.HasFactor(core.FactorEmailExact) {
			exact++
		}
	}

	switch {
	case top.HasFactor(core.FactorEmailExact) && top.Score > r.opts.LinkThreshold && exact == 1:
		return core.ActionLinkUser, top.Score
	case top.Score < r.opts.CreateThreshold:
		return core.ActionCreateUser, top.Score
	default:
		return core.ActionManualReview, top.Score
	}
}

func clamp(c float64) float64 {
	switch {
	case c < 0 || c != c:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
