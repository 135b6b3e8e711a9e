// Package mcpadapter exposes the document pipeline as MCP tools so an
// assistant client can fetch, analyze, translate and summarize stored documents.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

const (
	serverName    = "docsift"
	serverVersion = "1.0.0"
)

type Server struct {
	service         ports.DocumentService
	defaultLanguage string
	logger          *slog.Logger
}

func New(service ports.DocumentService, defaultLanguage string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service:         service,
		defaultLanguage: domain.ResolveLanguage(defaultLanguage),
		logger:          logger,
	}
}

// MCPServer registers every tool on a fresh protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))
	srv.AddTools(s.tools()...)
	return srv
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

func (s *Server) tools() []server.ServerTool {
	documentID := mcp.WithString("documentId", mcp.Required(), mcp.Description("Identifier returned by the upload API."))
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("get_document",
				mcp.WithDescription("Fetch an active legal document with its extracted text and stored analysis."),
				documentID,
			),
			Handler: s.getDocument,
		},
		{
			Tool: mcp.NewTool("analyze_document",
				mcp.WithDescription("Run a fresh AI risk assessment of a stored document and persist it."),
				documentID,
				mcp.WithString("language", mcp.Description("Response language code, e.g. en, hi, ta.")),
			),
			Handler: s.analyzeDocument,
		},
		{
			Tool: mcp.NewTool("translate_document",
				mcp.WithDescription("Translate the extracted text of a document."),
				documentID,
				mcp.WithString("targetLanguage", mcp.Description("Target language code.")),
			),
			Handler: s.translateDocument,
		},
		{
			Tool: mcp.NewTool("summarize_document",
				mcp.WithDescription("Summarize a document as text or as a short voice-friendly script."),
				documentID,
				mcp.WithString("language", mcp.Description("Summary language code.")),
				mcp.WithString("style", mcp.Enum("text", "voice"), mcp.Description("text (default) or voice.")),
			),
			Handler: s.summarizeDocument,
		},
	}
}

func (s *Server) getDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.service.Get(ctx, id)
	if err != nil {
		return s.toolError("get_document", id, err), nil
	}
	return jsonResult(doc)
}

func (s *Server) analyzeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := s.service.Analyze(ctx, id, request.GetString("language", s.defaultLanguage))
	if err != nil {
		return s.toolError("analyze_document", id, err), nil
	}
	return jsonResult(analysis)
}

func (s *Server) translateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.service.Translate(ctx, id, request.GetString("targetLanguage", s.defaultLanguage))
	if err != nil {
		return s.toolError("translate_document", id, err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) summarizeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := request.GetString("language", s.defaultLanguage)

	var summary string
	switch style := strings.ToLower(request.GetString("style", "text")); style {
	case "text":
		summary, err = s.service.Summarize(ctx, id, language)
	case "voice":
		summary, err = s.service.VoiceSummary(ctx, id, language)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown style %q", style)), nil
	}
	if err != nil {
		return s.toolError("summarize_document", id, err), nil
	}
	return mcp.NewToolResultText(summary), nil
}

// toolError reports failures inside the tool result so the client model can read them.
func (s *Server) toolError(tool, id string, err error) *mcp.CallToolResult {
	s.logger.Warn("mcp_tool_failed", "tool", tool, "document_id", id, "error", err)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
