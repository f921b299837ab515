package core

import (
	"time"
)

// Genre is the courtesy form derived from a title or returned by the LLM
type Genre string

const (
	GenreMr   Genre = "Mr."
	GenreMs   Genre = "Ms."
	GenreNone Genre = ""
)

// ExtractionStatus mirrors the ai_status column of msg_emails
type ExtractionStatus string

const (
	StatusUnprocessed     ExtractionStatus = "unprocessed"
	StatusExtractedHigh   ExtractionStatus = "extracted_high"
	StatusExtractedMedium ExtractionStatus = "extracted_medium"
	StatusExtractedLow    ExtractionStatus = "extracted_low"
	StatusReviewed        ExtractionStatus = "reviewed"
	StatusNotApplicable   ExtractionStatus = "not_applicable"
)

// SuggestedAction is the advisory outcome of a reconciliation
type SuggestedAction string

const (
	ActionLinkUser     SuggestedAction = "link_user"
	ActionCreateUser   SuggestedAction = "create_user"
	ActionManualReview SuggestedAction = "manual_review"
)

// MatchFactor names one signal that contributed to a candidate's score
type MatchFactor string

const (
	FactorEmailExact      MatchFactor = "email_exact"
	FactorEmailLocal      MatchFactor = "email_local"
	FactorDomainMatch     MatchFactor = "domain_match"
	FactorNameExact       MatchFactor = "name_exact"
	FactorNamePartial     MatchFactor = "name_partial"
	FactorConventionMatch MatchFactor = "convention_match"
	FactorCompanyMatch    MatchFactor = "company_match"
	FactorLLMMatch        MatchFactor = "llm_match"
	FactorLLMAlternative  MatchFactor = "llm_alternative"
)

// NamingConvention is an organization-wide local-part pattern
type NamingConvention string

const (
	ConventionFirstDotLast   NamingConvention = "firstname.lastname"
	ConventionLastDotFirst   NamingConvention = "lastname.firstname"
	ConventionInitialDotLast NamingConvention = "f.lastname"
	ConventionInitialLast    NamingConvention = "flastname"
	ConventionFirstLast      NamingConvention = "firstnamelastname"
	ConventionFirst          NamingConvention = "firstname"
	ConventionLast           NamingConvention = "lastname"
	ConventionUnknown        NamingConvention = "unknown"
)

// ParsedRecipient is the structural reading of one header segment
type ParsedRecipient struct {
	RawInput    string
	Email       string
	LocalPart   string
	Domain      string
	DisplayName string
	GivenName   string
	Surname     string
	Title       string
	CompanyName string
	IsPersonal  bool
	Confidence  float64
}

// LLMExtractionResult is a name extraction, either straight from the LLM
// (untrusted) or after sanitization by the validator
type LLMExtractionResult struct {
	Name1            string           `json:"name1"`
	Name2            string           `json:"name2"`
	Name1Pre         string           `json:"name1pre"`
	Name2Pre         string           `json:"name2pre"`
	Name3            string           `json:"name3"`
	Genre            Genre            `json:"genre"`
	Email            string           `json:"email"`
	Domain           string           `json:"domain"`
	IsPersonal       bool             `json:"is_personal"`
	Confidence       float64          `json:"confidence"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
	Reasoning        string           `json:"reasoning"`
}

// ValidationResult is the verdict of the extraction validator
type ValidationResult struct {
	IsValid         bool
	Errors          []string
	Warnings        []string
	SanitizedResult *LLMExtractionResult
}

// UserRecord is one entry of the user directory
type UserRecord struct {
	ID         string
	Name       string
	Genre      Genre
	Email      string
	Email2     string
	Address    string
	UserCode   string
	BuyerID    string
	ProducerID string
	Domain     string
	Domain2    string
}

// MatchCandidate is a directory user scored against a recipient
type MatchCandidate struct {
	UserID       string
	Score        float64
	MatchFactors []MatchFactor
}

// HasFactor reports whether the candidate carries the given factor
func (c MatchCandidate) HasFactor(f MatchFactor) bool {
	for _, mf := range c.MatchFactors {
		if mf == f {
			return true
		}
	}
	return false
}

// ReconciliationResult is the advisory outcome for one msg_emails record
type ReconciliationResult struct {
	MsgEmailID      string
	Candidates      []MatchCandidate
	Confidence      float64
	SuggestedAction SuggestedAction
	IsSharedEmail   bool
}

// DomainPattern describes what is known about a mail domain
type DomainPattern struct {
	Domain         string           `json:"domain"`
	Convention     NamingConvention `json:"convention"`
	Confidence     float64          `json:"confidence"`
	SampleSize     int              `json:"sample_size"`
	IsSharedDomain bool             `json:"is_shared_domain"`
	CompanyName    string           `json:"company_name"`
	BuyerID        string           `json:"buyer_id"`
	ProducerID     string           `json:"producer_id"`
}

// LLMInput is the minimal normalized view handed to the LLM
type LLMInput struct {
	RawInput         string
	CleanedEmail     string
	CleanedDisplay   string
	Domain           string
	LocalPart        string
	DomainConvention *DomainPattern
}

// MatchContext is what the LLM sees when asked to pick a directory user
type MatchContext struct {
	Recipient     ParsedRecipient
	Extraction    *LLMExtractionResult
	DomainPattern *DomainPattern
	Candidates    []UserRecord
}

// LLMMatchResult is the LLM's answer to a MatchContext
type LLMMatchResult struct {
	BestMatchID         string
	Confidence          float64
	Reasoning           string
	AlternativeMatchIDs []string
	ModelUsed           string
}

// AIExtraction holds the ai_* columns of a msg_emails record
type AIExtraction struct {
	Result           LLMExtractionResult
	Notes            string
	DomainConvention NamingConvention
	Version          string
	Model            string
	ProcessedAt      time.Time
}

// MsgEmailRecord is one persisted header segment awaiting reconciliation
type MsgEmailRecord struct {
	ID        string
	Input     string
	Address   string
	UserUd    string
	AI        *AIExtraction
	CreatedAt time.Time
}

// Message is an email as seen by the intake adapters
type Message struct {
	ID      string
	From    string
	To      []string
	Cc      []string
	Subject string
	Headers map[string][]string
}
