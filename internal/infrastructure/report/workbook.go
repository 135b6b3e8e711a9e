// Package report renders document analyses as XLSX workbooks.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/legalsift/docsift/internal/core/domain"
)

const (
	SummarySheet         = "Summary"
	FlaggedClausesSheet  = "Flagged Clauses"
	RecommendationsSheet = "Recommendations"
)

// BuildAnalysisWorkbook returns the XLSX bytes for an analyzed document.
func BuildAnalysisWorkbook(doc *domain.Document) ([]byte, error) {
	if !doc.IsAnalyzed() {
		return nil, domain.WrapError(domain.ErrNotAnalyzed, "build analysis workbook", errors.New("document has no analysis"))
	}
	a := doc.Analysis

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{FlaggedClausesSheet, RecommendationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	summary := [][2]any{
		{"Document", doc.Filename},
		{"Document Type", doc.DocumentType.Label()},
		{"Risk Score", a.RiskScore},
		{"Confidence", a.Confidence},
		{"Outcome", string(a.Outcome)},
		{"Language", domain.LanguageName(a.Language)},
		{"Analyzed At", formatTime(a.AnalyzedAt)},
		{"Summary", a.Summary},
		{"Plain Language Explanation", a.PlainLanguageExplanation},
		{"Key Terms", strings.Join(a.KeyTerms, ", ")},
	}
	for i, kv := range summary {
		if err := writeRow(f, SummarySheet, i+1, kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 28)
	_ = f.SetColWidth(SummarySheet, "B", "B", 80)

	if err := writeRow(f, FlaggedClausesSheet, 1, "Clause", "Risk Level", "Explanation", "Suggestion"); err != nil {
		return nil, err
	}
	for i, c := range a.FlaggedClauses {
		if err := writeRow(f, FlaggedClausesSheet, i+2, c.ClauseText, string(c.RiskLevel), c.Explanation, c.Suggestion); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(FlaggedClausesSheet, "A", "A", 60)
	_ = f.SetColWidth(FlaggedClausesSheet, "C", "D", 50)

	if err := writeRow(f, RecommendationsSheet, 1, "#", "Recommendation"); err != nil {
		return nil, err
	}
	for i, r := range a.Recommendations {
		if err := writeRow(f, RecommendationsSheet, i+2, i+1, r); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(RecommendationsSheet, "B", "B", 90)

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
