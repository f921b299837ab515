// Package shareddomain recognizes public mail domains that host many
// unrelated personal mailboxes.
package shareddomain

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultDomains are the public webmail and ISP domains checked when no
// list is configured
var DefaultDomains = []string{
	"gmail.com", "googlemail.com", "yahoo.com", "yahoo.it", "yahoo.de", "yahoo.fr",
	"ymail.com", "hotmail.com", "hotmail.it", "hotmail.de", "hotmail.fr",
	"outlook.com", "outlook.it", "live.com", "live.it", "msn.com",
	"icloud.com", "me.com", "mac.com", "aol.com", "gmx.de", "gmx.net", "gmx.com",
	"web.de", "t-online.de", "libero.it", "virgilio.it", "tiscali.it", "alice.it",
	"tin.it", "fastwebnet.it", "email.it", "orange.fr", "free.fr", "laposte.net",
	"wanadoo.fr", "protonmail.com", "proton.me", "zoho.com", "mail.com", "yandex.ru",
}

// Checker reports whether an address belongs to a shared domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new shared-domain checker. Entries are matched
// exactly after lowercasing; an empty list falls back to DefaultDomains.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(domains) == 0 {
		domains = DefaultDomains
	}

	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}

	logger.Info("Initialized shared-domain checker", zap.Int("domains", len(set)))

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// IsShared accepts a full address or a bare domain
func (c *Checker) IsShared(emailOrDomain string) bool {
	domain := strings.ToLower(strings.TrimSpace(emailOrDomain))
	if at := strings.LastIndex(domain, "@"); at >= 0 {
		domain = domain[at+1:]
	}
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return false
	}

	if _, ok := c.domains[domain]; ok {
		c.logger.Debug("Domain is shared", zap.String("domain", domain))
		return true
	}
	return false
}
