package core

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	LLMMatcher

	// ParseRecipient extracts a person's name from a preprocessed header segment.
	// The returned result is untrusted and must go through the validator.
	ParseRecipient(ctx context.Context, input *LLMInput) (*LLMExtractionResult, error)

	// ModelName returns the model identifier used for ai_model
	ModelName() string
}

// LLMMatcher picks the most likely directory user for a recipient
type LLMMatcher interface {
	MatchUser(ctx context.Context, mc *MatchContext) (*LLMMatchResult, error)
}

// UserDirectory looks up known users
type UserDirectory interface {
	// GetUsersByEmail returns users whose email or email2 equals the address, case-insensitively
	GetUsersByEmail(ctx context.Context, email string) ([]UserRecord, error)

	// GetUsersByDomain returns users registered under the domain or one of its subdomains
	GetUsersByDomain(ctx context.Context, domain string) ([]UserRecord, error)
}

// DomainAnalyzer describes a mail domain
type DomainAnalyzer interface {
	GetDomainPattern(ctx context.Context, domain string) (*DomainPattern, error)
}

// MsgEmailRepository persists msg_emails records
type MsgEmailRepository interface {
	// Insert stores a new record
	Insert(ctx context.Context, rec *MsgEmailRecord) error

	// Get retrieves a record by id
	Get(ctx context.Context, id string) (*MsgEmailRecord, error)

	// ListPending returns records whose ai_status is unprocessed
	ListPending(ctx context.Context, limit int) ([]MsgEmailRecord, error)

	// SaveExtraction writes the ai_* columns of a record
	SaveExtraction(ctx context.Context, id string, ai *AIExtraction) error
}

// PatternCacheEntry is a cached domain pattern
type PatternCacheEntry struct {
	Domain    string
	Pattern   DomainPattern
	LastSeen  time.Time
	ExpiresAt time.Time
}

// PatternCache defines the interface for caching domain patterns
type PatternCache interface {
	// Get retrieves a cached entry for a domain
	Get(ctx context.Context, domain string) (*PatternCacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *PatternCacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, domain string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
