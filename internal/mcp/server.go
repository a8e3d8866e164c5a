package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-citation-auditor/internal/audit"
	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/config"
	"github.com/a3tai/mcp-citation-auditor/internal/descriptions"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	audit     *audit.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, auditService *audit.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if auditService == nil {
		return nil, fmt.Errorf("audit service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		audit:     auditService,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolPageText,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPageText)),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF, absolute or relative to the report directory")),
		mcp.WithNumber("page", mcp.Required(), mcp.Description("1-based page number")),
		mcp.WithBoolean("include_runs", mcp.Description("Also return the positioned text runs as JSON")),
	), s.handlePageText)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolListDocuments,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolListDocuments)),
		mcp.WithString("query", mcp.Description("Optional loose file name filter")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents to return")),
	), s.handleListDocuments)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	), s.handleServerInfo)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolHighlights,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolHighlights)),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF")),
		mcp.WithNumber("page", mcp.Required(), mcp.Description("1-based page number")),
		mcp.WithString("citations", mcp.Description("JSON array of citation rows")),
		mcp.WithString("search_term", mcp.Description("Free text to find on the page")),
		mcp.WithNumber("hovered", mcp.Description("Index of the citation row to emphasise")),
		mcp.WithNumber("scale", mcp.Description("Display scale applied to the overlays, default 1")),
		mcp.WithBoolean("explain", mcp.Description("Also return the token span behind every highlight")),
	), s.handleHighlights)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolExtract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtract)),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF")),
		mcp.WithNumber("page", mcp.Required(), mcp.Description("1-based page number")),
		mcp.WithString("report_name", mcp.Description("Report name written into every row")),
		mcp.WithString("few_shot_examples", mcp.Description("JSON array of corrected rows to imitate")),
		mcp.WithString("memory", mcp.Description("JSON memory object returned for the previous page")),
		mcp.WithBoolean("skip_validation", mcp.Description("Keep blank rows, default true")),
	), s.handleExtract)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolClassify,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolClassify)),
		mcp.WithString("text", mcp.Required(), mcp.Description("The selected text")),
		mcp.WithNumber("page", mcp.Description("Page the text was selected on")),
		mcp.WithString("report_name", mcp.Description("Report name")),
	), s.handleClassify)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolSavePage,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolSavePage)),
		mcp.WithNumber("page", mcp.Required(), mcp.Description("1-based page number")),
		mcp.WithString("citations", mcp.Required(), mcp.Description("JSON array of reviewed citation rows")),
	), s.handleSavePage)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolExportCSV,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExportCSV)),
		mcp.WithString("citations", mcp.Description("JSON array of rows; the saved table when omitted")),
	), s.handleExportCSV)
}

// Handler functions
func (s *Server) handlePageText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.audit.Pages().PageText(pdf.PageTextRequest{Path: path, Page: page})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := s.formatPageText(snap)
	if request.GetBool("include_runs", false) {
		runs, err := json.Marshal(snap.Page.Tokens)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text += "\n\nText runs (JSON):\n" + string(runs)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleListDocuments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.audit.Pages().ListDocuments(pdf.ListDocumentsRequest{
		Query: request.GetString("query", ""),
		Limit: request.GetInt("limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.Query != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return mcp.NewToolResultText(text), nil
	}

	return mcp.NewToolResultText(s.formatListDocumentsResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.audit.Pages().ServerInfo(s.config.ServerName, s.config.Version, s.audit.ReportName())
	return mcp.NewToolResultText(s.formatServerInfoResult(info)), nil
}

func (s *Server) handleHighlights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var rows []citation.Entry
	if err := decodeArgument(request, "citations", &rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := audit.HighlightsRequest{
		Path:       path,
		Page:       page,
		Citations:  rows,
		SearchTerm: request.GetString("search_term", ""),
		Scale:      request.GetFloat("scale", 1),
		Explain:    request.GetBool("explain", false),
	}
	if _, ok := request.GetArguments()["hovered"]; ok {
		hovered := request.GetInt("hovered", highlightNone)
		req.Hovered = &hovered
	}

	result, err := s.audit.Highlights(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// highlightNone never matches a citation row.
const highlightNone = -2

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := audit.ExtractRequest{
		Path:       path,
		Page:       page,
		ReportName: request.GetString("report_name", ""),
	}
	if err := decodeArgument(request, "few_shot_examples", &req.FewShotExamples); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := decodeArgument(request, "memory", &req.Memory); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := request.GetArguments()["skip_validation"]; ok {
		skip := request.GetBool("skip_validation", true)
		req.SkipValidation = &skip
	}

	result, err := s.audit.Extract(ctx, req)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.audit.Classify(ctx, llm.ClassifyRequest{
		SelectedText: text,
		PageNumber:   request.GetInt("page", 0),
		ReportName:   request.GetString("report_name", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleSavePage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := request.GetArguments()["citations"]; !ok {
		return mcp.NewToolResultError(`required argument "citations" not found`), nil
	}

	var rows []citation.Entry
	if err := decodeArgument(request, "citations", &rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	saved, total, err := s.audit.SavePage(page, rows)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d citation row(s) from page %d. The audit table now holds %d row(s).",
		saved, page, total)), nil
}

func (s *Server) handleExportCSV(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rows []citation.Entry
	if err := decodeArgument(request, "citations", &rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if err := s.audit.ExportCSV(&buf, rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// decodeArgument decodes a JSON argument into v. Clients send either a JSON
// string or the structured value itself. A missing argument leaves v as is.
func decodeArgument(request mcp.CallToolRequest, name string, v any) error {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return nil
	}

	var data []byte
	switch value := raw.(type) {
	case string:
		if value == "" {
			return nil
		}
		data = []byte(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		data = encoded
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, llm.ErrNoAPIKey) {
		return mcp.NewToolResultError(err.Error() +
			"; set CITE_AUDIT_OPENAIKEY or OPENAI_API_KEY to enable citation_extract and citation_classify")
	}
	return mcp.NewToolResultError(err.Error())
}

// Formatting methods
func (s *Server) formatPageText(snap *pdf.PageSnapshot) string {
	text := fmt.Sprintf("Page %d of %d: %s\n", snap.Number(), snap.PageCount, snap.Path)
	text += fmt.Sprintf("Page size: %.0f x %.0f pt\n", snap.Page.Geometry.Width, snap.Page.Geometry.Height)
	text += fmt.Sprintf("Text runs: %d\n", len(snap.Page.Tokens))
	text += fmt.Sprintf("Needs OCR: %t\n", snap.NeedsOCR)

	if snap.NeedsOCR {
		text += "\n⚠️  WARNING: This page has little or no extractable text. It is probably a scan; " +
			"highlights and extraction will find little on it.\n"
	}

	text += "\nText:\n"
	text += snap.Text
	return text
}

func (s *Server) formatListDocumentsResult(result *pdf.ListDocumentsResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	text += "\nFiles:\n"

	for i, doc := range result.Documents {
		text += fmt.Sprintf("%d. %s\n", i+1, doc.Name)
		text += fmt.Sprintf("   Path: %s\n", doc.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", doc.Size)
		text += fmt.Sprintf("   Modified: %s\n", doc.ModifiedTime)
		if i < len(result.Documents)-1 {
			text += "\n"
		}
	}

	if result.Truncated {
		text += "\n(more documents match; raise limit or refine the query)\n"
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("📑 Report Name: %s\n", result.ReportName)
	text += fmt.Sprintf("🗂️  Page Cache: %d/%d pages, %.1f%% hit rate\n\n",
		result.Cache.Size, result.Cache.Capacity, result.Cache.HitRate)

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// HTTPHandler exposes the same tools over MCP streamable HTTP, for server
// mode.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

// Run serves the MCP tools on standard input and output
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting citation auditor MCP server in stdio mode")
		log.Printf("Report directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
