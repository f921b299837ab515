// Package domainpattern infers what a mail domain looks like from the users
// already registered under it.
package domainpattern

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
	"go.uber.org/zap"
)

const (
	// a domain is treated as shared when at least sharedMinSiblings users
	// belong to some organization and none of those organizations holds
	// sharedMaxOrgShare of them
	sharedMinSiblings = 5
	sharedMaxOrgShare = 0.2

	// a convention this consistent means one organization assigns the addresses
	sharedConventionVeto = 0.6
)

// SharedChecker reports whether a domain hosts unrelated personal mailboxes
type SharedChecker interface {
	IsShared(emailOrDomain string) bool
}

// Analyzer implements core.DomainAnalyzer on top of the user directory
type Analyzer struct {
	directory core.UserDirectory
	shared    SharedChecker
	cache     core.PatternCache
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyzer creates a new Analyzer. cache may be nil.
func NewAnalyzer(directory core.UserDirectory, shared SharedChecker, cache core.PatternCache, ttl time.Duration, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		directory: directory,
		shared:    shared,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// GetDomainPattern returns the cached pattern for domain or computes it
func (a *Analyzer) GetDomainPattern(ctx context.Context, domain string) (*core.DomainPattern, error) {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return nil, fmt.Errorf("empty domain")
	}

	if a.cache != nil {
		entry, err := a.cache.Get(ctx, domain)
		if err == nil && entry != nil {
			a.logger.Debug("Domain pattern cache hit", zap.String("domain", domain))
			pattern := entry.Pattern
			return &pattern, nil
		}
		if err != nil {
			a.logger.Debug("Domain pattern cache miss", zap.String("domain", domain), zap.Error(err))
		}
	}

	pattern := &core.DomainPattern{
		Domain:     domain,
		Convention: core.ConventionUnknown,
	}

	if a.shared != nil && a.shared.IsShared(domain) {
		pattern.IsSharedDomain = true
	} else {
		users, err := a.directory.GetUsersByDomain(ctx, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch users for domain %s: %w", domain, err)
		}
		analyze(pattern, users)
	}

	a.store(ctx, pattern)

	a.logger.Debug("Domain pattern computed",
		zap.String("domain", domain),
		zap.String("convention", string(pattern.Convention)),
		zap.Float64("confidence", pattern.Confidence),
		zap.Int("sample_size", pattern.SampleSize),
		zap.Bool("shared", pattern.IsSharedDomain))

	return pattern, nil
}

func (a *Analyzer) store(ctx context.Context, pattern *core.DomainPattern) {
	if a.cache == nil || a.ttl <= 0 {
		return
	}
	now := a.now()
	err := a.cache.Set(ctx, &core.PatternCacheEntry{
		Domain:    pattern.Domain,
		Pattern:   *pattern,
		LastSeen:  now,
		ExpiresAt: now.Add(a.ttl),
	})
	if err != nil {
		a.logger.Warn("Failed to cache domain pattern", zap.String("domain", pattern.Domain), zap.Error(err))
	}
}

// analyze fills pattern from the users registered under its domain
func analyze(pattern *core.DomainPattern, users []core.UserRecord) {
	votes := make(map[core.NamingConvention]int)
	companies := make(map[string]int)
	buyers := make(map[string]int)
	producers := make(map[string]int)
	orgs := make(map[string]int)
	affiliated := 0

	for _, u := range users {
		if u.BuyerID != "" {
			buyers[u.BuyerID]++
		}
		if u.ProducerID != "" {
			producers[u.ProducerID]++
		}
		if org := organizationKey(u); org != "" {
			orgs[org]++
			affiliated++
		}

		for _, email := range []string{u.Email, u.Email2} {
			local, domain := recipient.SplitEmail(strings.ToLower(strings.TrimSpace(email)))
			if !sameDomain(domain, pattern.Domain) {
				continue
			}
			if recipient.IsServiceLocalPart(local) {
				if name := strings.TrimSpace(u.Name); name != "" {
					companies[name]++
				}
				break
			}

			tokens := strings.Fields(u.Name)
			if len(tokens) != 2 {
				break
			}
			// directory names come in either order; a user votes for every
			// convention one of the orders explains
			pattern.SampleSize++
			straight := recipient.DetectConvention(local, tokens[0], tokens[1])
			swapped := recipient.DetectConvention(local, tokens[1], tokens[0])
			votes[straight]++
			if swapped != straight {
				votes[swapped]++
			}
			break
		}
	}

	if winner, n := top(conventionKeys(votes)); winner != "" {
		pattern.Convention = core.NamingConvention(winner)
		pattern.Confidence = float64(n) / float64(pattern.SampleSize)
	}

	pattern.CompanyName, _ = top(companies)
	pattern.ProducerID, _ = top(producers)
	pattern.BuyerID, _ = top(buyers)

	pattern.IsSharedDomain = isSharedBySiblings(pattern, orgs, affiliated)
}

// organizationKey names the organization a user belongs to. Users without a
// buyer or producer id belong to none.
func organizationKey(u core.UserRecord) string {
	switch {
	case u.BuyerID != "":
		return "buyer:" + u.BuyerID
	case u.ProducerID != "":
		return "producer:" + u.ProducerID
	}
	return ""
}

func isSharedBySiblings(pattern *core.DomainPattern, orgs map[string]int, affiliated int) bool {
	if affiliated < sharedMinSiblings || len(orgs) < 2 {
		return false
	}
	if pattern.Convention != core.ConventionUnknown && pattern.Confidence >= sharedConventionVeto {
		return false
	}
	_, largest := top(orgs)
	return float64(largest)/float64(affiliated) < sharedMaxOrgShare
}

func sameDomain(domain, target string) bool {
	return domain == target || strings.HasSuffix(domain, "."+target)
}

func conventionKeys(votes map[core.NamingConvention]int) map[string]int {
	out := make(map[string]int, len(votes))
	for k, v := range votes {
		if k != core.ConventionUnknown {
			out[string(k)] = v
		}
	}
	return out
}

// top returns the most frequent key, ties broken alphabetically
func top(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestN := "", 0
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best, bestN
}
