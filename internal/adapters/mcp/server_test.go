package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

type serviceFake struct {
	ports.DocumentService
	calls []string
}

func (f *serviceFake) Get(_ context.Context, id string) (*domain.Document, error) {
	if id != "doc-1" {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id="+id))
	}
	return &domain.Document{ID: "doc-1", Filename: "lease.txt", ExtractedText: "Rent is due monthly.", IsActive: true}, nil
}

func (f *serviceFake) Analyze(_ context.Context, id, language string) (*domain.Analysis, error) {
	f.calls = append(f.calls, "analyze:"+language)
	return &domain.Analysis{
		RiskAssessment: domain.RiskAssessment{RiskScore: 40, Summary: "moderate", Confidence: 70},
		IsAnalyzed:     true,
		Language:       language,
		Outcome:        domain.OutcomeParsed,
	}, nil
}

func (f *serviceFake) Translate(_ context.Context, _, target string) (string, error) {
	f.calls = append(f.calls, "translate:"+target)
	return "translated", nil
}

func (f *serviceFake) Summarize(_ context.Context, _, language string) (string, error) {
	f.calls = append(f.calls, "summary:"+language)
	return "summary", nil
}

func (f *serviceFake) VoiceSummary(_ context.Context, _, language string) (string, error) {
	f.calls = append(f.calls, "voice:"+language)
	return "voice", nil
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	switch content := result.Content[0].(type) {
	case mcp.TextContent:
		return content.Text
	case *mcp.TextContent:
		return content.Text
	default:
		t.Fatalf("unexpected content type %T", content)
		return ""
	}
}

func TestToolsAreRegistered(t *testing.T) {
	s := New(&serviceFake{}, "en", nil)

	names := make([]string, 0, 4)
	for _, tool := range s.tools() {
		names = append(names, tool.Tool.Name)
		assert.Contains(t, tool.Tool.InputSchema.Required, "documentId")
	}
	assert.Equal(t, []string{"get_document", "analyze_document", "translate_document", "summarize_document"}, names)
	assert.NotNil(t, s.MCPServer())
}

func TestGetDocumentTool(t *testing.T) {
	s := New(&serviceFake{}, "en", nil)

	result, err := s.getDocument(context.Background(), callRequest("get_document", map[string]any{"documentId": "doc-1"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	assert.Equal(t, "Rent is due monthly.", doc.ExtractedText)

	result, err = s.getDocument(context.Background(), callRequest("get_document", map[string]any{"documentId": "missing"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "document not found")

	result, err = s.getDocument(context.Background(), callRequest("get_document", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestLanguageToolsUseDefaults(t *testing.T) {
	fake := &serviceFake{}
	s := New(fake, "HI", nil)
	ctx := context.Background()

	result, err := s.analyzeDocument(ctx, callRequest("analyze_document", map[string]any{"documentId": "doc-1"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"riskScore": 40`)

	result, err = s.translateDocument(ctx, callRequest("translate_document", map[string]any{"documentId": "doc-1", "targetLanguage": "ta"}))
	require.NoError(t, err)
	assert.Equal(t, "translated", resultText(t, result))

	result, err = s.summarizeDocument(ctx, callRequest("summarize_document", map[string]any{"documentId": "doc-1", "style": "voice"}))
	require.NoError(t, err)
	assert.Equal(t, "voice", resultText(t, result))

	result, err = s.summarizeDocument(ctx, callRequest("summarize_document", map[string]any{"documentId": "doc-1"}))
	require.NoError(t, err)
	assert.Equal(t, "summary", resultText(t, result))

	result, err = s.summarizeDocument(ctx, callRequest("summarize_document", map[string]any{"documentId": "doc-1", "style": "poem"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	assert.Equal(t, []string{"analyze:hi", "translate:ta", "voice:hi", "summary:hi"}, fake.calls)
}
