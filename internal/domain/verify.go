package domain

import "encoding/json"

// Stance values a citation can take toward the claim it was retrieved for.
const (
	StanceSupports          = "supports"
	StanceContradicts       = "contradicts"
	StancePartiallySupports = "partially_supports"
	StanceNeutral           = "neutral"
	StanceIrrelevant        = "irrelevant"
)

// Verdict result values.
const (
	ResultSupported          = "supported"
	ResultPartiallySupported = "partially_supported"
	ResultContradicted       = "contradicted"
	ResultMixed              = "mixed"
	ResultUnverifiable       = "unverifiable"
)

// Citation is a single source reference returned by the verification service.
type Citation struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	Snippet          string  `json:"snippet"`
	Stance           string  `json:"stance,omitempty"`
	StanceConfidence float64 `json:"stance_confidence,omitempty"`
	CredibilityScore float64 `json:"credibility_score,omitempty"`
}

// Verdict is the service's judgement for one claim or claim group.
type Verdict struct {
	Result           string         `json:"result"`
	Confidence       float64        `json:"confidence"`
	Summary          string         `json:"summary"`
	StanceBreakdown  map[string]int `json:"stance_breakdown,omitempty"`
	KeyFindings      []string       `json:"key_findings,omitempty"`
	Corrections      []string       `json:"corrections,omitempty"`
	UnverifiedClaims []string       `json:"unverified_claims,omitempty"`
}

// ClaimGroup is the unit of decomposition when a complex claim is split into
// sub-claims. CitationCount equals len(Citations) when citations are inlined.
type ClaimGroup struct {
	ClaimID       string     `json:"claim_id"`
	ClaimIndex    int        `json:"claim_index"`
	Claim         string     `json:"claim"`
	StanceSummary string     `json:"stance_summary"`
	CitationCount int        `json:"citation_count"`
	Citations     []Citation `json:"citations"`
	Verdict       *Verdict   `json:"verdict,omitempty"`
}

// VerifyResult is the complete outcome of one verification call.
// CreditUsage is kept as raw JSON to stay forward-compatible with whatever
// billing shape the service streams.
type VerifyResult struct {
	ClaimGroups  []ClaimGroup    `json:"claim_groups"`
	TotalResults int             `json:"totalResults"`
	ThreadID     string          `json:"thread_id"`
	CreditUsage  json.RawMessage `json:"credit_usage,omitempty"`
}

// VerifyRequest is the input to a verification call. Exactly one of Claim or
// DocumentID is set; ThreadID continues an earlier verification session.
// SourceURL, when set, restricts evidence retrieval to a single source.
type VerifyRequest struct {
	Claim      string `json:"claim,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	ThreadID   string `json:"thread_id,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
	MaxSources int    `json:"max_sources,omitempty"`
	Stream     bool   `json:"stream,omitempty"`
}

// Document identifies an uploaded file that can be verified by reference.
type Document struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
}
