package domain

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

type FlaggedClause struct {
	ClauseText  string    `json:"clause"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Explanation string    `json:"explanation"`
	Suggestion  string    `json:"suggestion"`
}

// RiskAssessment is the structured answer of the completion service.
// RiskScore and Confidence are independent integers in [0,100]; Confidence
// describes trust in the parse, not the legal accuracy.
type RiskAssessment struct {
	RiskScore                int             `json:"riskScore"`
	Summary                  string          `json:"summary"`
	KeyTerms                 []string        `json:"keyTerms"`
	FlaggedClauses           []FlaggedClause `json:"flaggedClauses"`
	Recommendations          []string        `json:"recommendations"`
	PlainLanguageExplanation string          `json:"plainLanguageExplanation"`
	Confidence               int             `json:"confidence"`
}

// AssessmentOutcome records how the completion response was interpreted.
type AssessmentOutcome string

const (
	OutcomeParsed         AssessmentOutcome = "parsed"
	OutcomeParseError     AssessmentOutcome = "parse_error"
	OutcomeSchemaMismatch AssessmentOutcome = "schema_mismatch"
)

func (o AssessmentOutcome) IsFallback() bool {
	return o == OutcomeParseError || o == OutcomeSchemaMismatch
}

const (
	FallbackRiskScore   = 50
	FallbackConfidence  = 30
	FallbackSummary     = "Document analysis completed with limited results"
	FallbackExplanation = "Analysis completed but results may be incomplete"
	FallbackAdvice      = "Please review the document manually"
)

// FallbackRiskAssessment is returned whenever the model output cannot be used.
func FallbackRiskAssessment() RiskAssessment {
	return RiskAssessment{
		RiskScore:                FallbackRiskScore,
		Summary:                  FallbackSummary,
		KeyTerms:                 []string{},
		FlaggedClauses:           []FlaggedClause{},
		Recommendations:          []string{FallbackAdvice},
		PlainLanguageExplanation: FallbackExplanation,
		Confidence:               FallbackConfidence,
	}
}

// Assessment is what the risk client hands back: the assessment plus how it was obtained.
type Assessment struct {
	Risk    RiskAssessment
	Outcome AssessmentOutcome
	// Detail holds the parse or validation error text for fallback outcomes.
	Detail string
}

// Analysis is the persisted form attached to a document. It is either absent
// or complete.
type Analysis struct {
	RiskAssessment
	IsAnalyzed bool              `json:"isAnalyzed"`
	AnalyzedAt time.Time         `json:"analyzedAt"`
	Language   string            `json:"language"`
	Outcome    AssessmentOutcome `json:"outcome"`
}

// AnalysisRequest is the queued form of an analyze call.
type AnalysisRequest struct {
	DocumentID string    `json:"documentId"`
	Language   string    `json:"language"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}
