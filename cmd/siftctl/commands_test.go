package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

type completionStub struct {
	response string
	prompts  []string
}

func (c *completionStub) Complete(_ context.Context, prompt string, _ ports.CompletionOptions) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, nil
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractPrintsText(t *testing.T) {
	path := writeFile(t, "notice.txt", "\n  Pay within 15 days.  \n")

	out, err := run(t, "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "Pay within 15 days.\n", out)

	_, err = run(t, "extract", "--format", "exe", path)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrUnsupportedFormat))
}

func TestAssessThenExport(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	stub := &completionStub{response: `{"riskScore":55,"summary":"Balanced loan","confidence":65}`}
	previous := completionFactory
	completionFactory = func(config.Config, *slog.Logger) (ports.CompletionService, error) { return stub, nil }
	t.Cleanup(func() { completionFactory = previous })

	path := writeFile(t, "loan.txt", "The borrower shall repay in 12 instalments.")
	out, err := run(t, "assess", "--type", "loan_document", "--lang", "ml", path)
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "loan document")
	assert.Contains(t, stub.prompts[0], "Malayalam")

	var result domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 55, result.RiskScore)
	assert.Equal(t, domain.OutcomeParsed, result.Outcome)
	assert.Equal(t, "ml", result.Language)
	assert.NotNil(t, result.KeyTerms)

	analysisPath := writeFile(t, "loan-analysis.json", out)
	reportPath := filepath.Join(t.TempDir(), "report.xlsx")
	out, err = run(t, "export", "--in", analysisPath, "--out", reportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote "+reportPath))

	info, err := os.Stat(reportPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestAssessRejectsUnknownTypeAndEmptyText(t *testing.T) {
	path := writeFile(t, "blank.txt", "   ")

	_, err := run(t, "assess", "--type", "treaty", path)
	require.Error(t, err)

	_, err = run(t, "assess", path)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrEmptyText))
}

func TestLanguagesListsSortedCodes(t *testing.T) {
	out, err := run(t, "languages")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(domain.SupportedLanguages()))
	assert.Equal(t, "bn\tBengali", lines[0])
	assert.Contains(t, lines, "ta\tTamil")
}
