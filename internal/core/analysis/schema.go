package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/legalsift/docsift/internal/core/domain"
)

const riskAssessmentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["riskScore", "summary", "confidence"],
  "properties": {
    "riskScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "summary": {"type": "string"},
    "keyTerms": {"type": ["array", "null"], "items": {"type": "string"}},
    "flaggedClauses": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "clause": {"type": "string"},
          "riskLevel": {"enum": ["low", "medium", "high", "critical"]},
          "explanation": {"type": "string"},
          "suggestion": {"type": "string"}
        }
      }
    },
    "recommendations": {"type": ["array", "null"], "items": {"type": "string"}},
    "plainLanguageExplanation": {"type": ["string", "null"]},
    "confidence": {"type": "integer", "minimum": 0, "maximum": 100}
  }
}`

var riskSchema = jsonschema.MustCompileString("risk_assessment.json", riskAssessmentSchema)

// parseRiskAssessment interprets a raw completion. It never fails: unusable
// output is reported through the outcome and replaced by the fallback.
func parseRiskAssessment(raw string) (domain.RiskAssessment, domain.AssessmentOutcome, string) {
	payload := []byte(extractJSONObject(raw))

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return domain.FallbackRiskAssessment(), domain.OutcomeParseError, err.Error()
	}
	if dec.More() {
		return domain.FallbackRiskAssessment(), domain.OutcomeParseError, "trailing data after json object"
	}
	if err := riskSchema.Validate(doc); err != nil {
		return domain.FallbackRiskAssessment(), domain.OutcomeSchemaMismatch, err.Error()
	}

	var result domain.RiskAssessment
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.FallbackRiskAssessment(), domain.OutcomeSchemaMismatch, fmt.Sprintf("decode assessment: %v", err)
	}
	if result.KeyTerms == nil {
		result.KeyTerms = []string{}
	}
	if result.FlaggedClauses == nil {
		result.FlaggedClauses = []domain.FlaggedClause{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return result, domain.OutcomeParsed, ""
}

// extractJSONObject cuts the outermost {...} out of a chatty response.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
