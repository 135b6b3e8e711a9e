package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/legalsift/docsift/internal/core/domain"
)

func analyzedDocument() *domain.Document {
	return &domain.Document{
		ID:           "doc-1",
		Filename:     "lease.pdf",
		DocumentType: domain.DocumentTypeLoanDocument,
		Analysis: &domain.Analysis{
			RiskAssessment: domain.RiskAssessment{
				RiskScore: 72,
				Summary:   "Loan with penal interest",
				KeyTerms:  []string{"interest", "penalty"},
				FlaggedClauses: []domain.FlaggedClause{
					{ClauseText: "Penal interest of 36% p.a.", RiskLevel: domain.RiskCritical, Explanation: "Above market", Suggestion: "Negotiate a cap"},
				},
				Recommendations:          []string{"Consult a lawyer", "Ask for a cap"},
				PlainLanguageExplanation: "Paying late is expensive.",
				Confidence:               80,
			},
			IsAnalyzed: true,
			AnalyzedAt: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC),
			Language:   "hi",
			Outcome:    domain.OutcomeParsed,
		},
	}
}

func TestBuildAnalysisWorkbook(t *testing.T) {
	raw, err := BuildAnalysisWorkbook(analyzedDocument())
	if err != nil {
		t.Fatalf("BuildAnalysisWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SummarySheet || sheets[1] != FlaggedClausesSheet || sheets[2] != RecommendationsSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	checks := map[string]string{"B1": "lease.pdf", "B2": "loan document", "B3": "72", "B4": "80", "B5": "parsed", "B6": "Hindi", "B7": "2026-10-16T10:00:00Z", "B10": "interest, penalty"}
	for cell, want := range checks {
		got, err := f.GetCellValue(SummarySheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Fatalf("%s = %q, want %q", cell, got, want)
		}
	}

	clauseRows, err := f.GetRows(FlaggedClausesSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(clauseRows) != 2 || clauseRows[1][0] != "Penal interest of 36% p.a." || clauseRows[1][1] != "critical" {
		t.Fatalf("unexpected clause rows %v", clauseRows)
	}

	recRows, err := f.GetRows(RecommendationsSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(recRows) != 3 || recRows[2][1] != "Ask for a cap" {
		t.Fatalf("unexpected recommendation rows %v", recRows)
	}
}

func TestBuildAnalysisWorkbookRequiresAnalysis(t *testing.T) {
	_, err := BuildAnalysisWorkbook(&domain.Document{ID: "doc-1"})
	if !domain.IsKind(err, domain.ErrNotAnalyzed) {
		t.Fatalf("expected ErrNotAnalyzed, got %v", err)
	}
}
