package analysis

import (
	"fmt"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
)

const assessorSystemPrompt = "You are an expert legal AI assistant specializing in Indian contract law. Always respond with valid JSON format."

var riskFocusAreas = []string{
	"Hidden charges and penalties",
	"Unfair terms and conditions",
	"Rights and obligations",
	"Termination clauses",
	"Dispute resolution mechanisms",
	"Payment terms",
	"Liability limitations",
	"Data privacy concerns",
	"Compliance with Indian laws",
}

func buildAssessmentPrompt(text string, documentType domain.DocumentType, language string) string {
	var focus strings.Builder
	for idx, area := range riskFocusAreas {
		fmt.Fprintf(&focus, "%d. %s\n", idx+1, area)
	}

	return fmt.Sprintf(`Analyze the following %s document under Indian law and provide a comprehensive risk assessment.

Document Text:
%s

Return a single JSON object with exactly these keys:
{
  "riskScore": integer 0-100,
  "summary": "brief summary of the document",
  "keyTerms": ["term", ...],
  "flaggedClauses": [
    {
      "clause": "exact text of the clause",
      "riskLevel": "low|medium|high|critical",
      "explanation": "why this clause is risky",
      "suggestion": "recommended action"
    }
  ],
  "recommendations": ["recommendation", ...],
  "plainLanguageExplanation": "simple explanation of the document in %s",
  "confidence": integer 0-100
}

Focus on:
%s
Respond only with valid JSON. No markdown, no extra keys.`,
		documentType.Label(), text, domain.LanguageName(language), focus.String())
}

const (
	translatorSystemPrompt = "You are a professional translator. Translate the following text to %s. Maintain the legal terminology and context."
	summarySystemPrompt    = "You are an expert legal assistant. Provide clear, accurate summaries of legal documents."
	voiceSystemPrompt      = "You are creating voice summaries for legal documents. Make them conversational and easy to understand."
)

func buildSummaryPrompt(text, language string) string {
	name := domain.LanguageName(language)
	return fmt.Sprintf(`Summarize the following legal document in %s. Focus on:
1. Main purpose and parties involved
2. Key terms and conditions
3. Important dates and deadlines
4. Rights and obligations
5. Potential risks or concerns

Document:
%s

Provide a clear, concise summary in %s.`, name, text, name)
}

func buildVoiceSummaryPrompt(text, language string) string {
	return fmt.Sprintf(`Create a voice-friendly summary of the following legal document in %s.
The summary should be:
- conversational and easy to listen to
- under 200 words
- focused on key points
- in simple language
- explicit about important warnings or risks

Document:
%s`, domain.LanguageName(language), text)
}
