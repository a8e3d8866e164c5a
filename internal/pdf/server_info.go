package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-citation-auditor/internal/descriptions"
)

// ServerInfo describes the server: its tools, limits and cache state.
func (s *Service) ServerInfo(serverName, version, reportName string) *ServerInfoResult {
	return &ServerInfoResult{
		ServerName:       serverName,
		Version:          version,
		DefaultDirectory: s.pathValidator.Root(),
		MaxFileSize:      s.maxFileSize,
		ReportName:       reportName,
		AvailableTools:   availableTools(),
		Cache:            s.cache.Stats(),
		UsageGuidance:    s.usageGuidance(),
	}
}

func availableTools() []ToolInfo {
	params := map[string]string{
		descriptions.ToolPageText:      "path (required), page (required, 1-based)",
		descriptions.ToolListDocuments: "query (optional): loose file name filter, limit (optional)",
		descriptions.ToolServerInfo:    "none",
		descriptions.ToolHighlights: "path (required), page (required), citations (required, JSON array of rows), " +
			"search_term (optional), hovered (optional row index), scale (optional, default 1), explain (optional)",
		descriptions.ToolExtract: "path (required), page (required), report_name (optional), " +
			"few_shot_examples (optional), memory (optional), skip_validation (optional)",
		descriptions.ToolClassify:  "text (required), page (optional), report_name (optional)",
		descriptions.ToolSavePage:  "page (required), citations (required, JSON array of rows)",
		descriptions.ToolExportCSV: "citations (optional, JSON array of rows; defaults to the saved table)",
	}
	usage := map[string]string{
		descriptions.ToolPageText:      "Read the text layer of a page and check whether it needs OCR.",
		descriptions.ToolListDocuments: "Find report files under the configured directory.",
		descriptions.ToolServerInfo:    "Learn the tools, limits and cache state of this server.",
		descriptions.ToolHighlights:    "Verify citation rows against the page they were extracted from.",
		descriptions.ToolExtract:       "Build the citation rows of a page with the language model.",
		descriptions.ToolClassify:      "Assign a selected snippet to a citation column.",
		descriptions.ToolSavePage:      "Keep the reviewed rows of a page in the audit table.",
		descriptions.ToolExportCSV:     "Export reviewed rows for the audit spreadsheet.",
	}

	names := descriptions.GetAllToolNames()
	tools := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: descriptions.GetToolDescription(name),
			Usage:       usage[name],
			Parameters:  params[name],
		})
	}
	return tools
}

func (s *Service) usageGuidance() string {
	return fmt.Sprintf(`Citation Auditor Usage Guide:

1. FIND A REPORT:
   - Use 'pdf_list_documents' to see the reports under %s

2. READ A PAGE:
   - Use 'pdf_page_text' with the report path and a 1-based page number
   - If needs_ocr is true the page is a scan and cannot be audited as is

3. BUILD THE CITATION TABLE:
   - Use 'citation_extract' to draft the rows of the page
   - Use 'citation_classify' on snippets the draft missed

4. VERIFY:
   - Use 'citation_highlights' with the rows to see where each value sits on the page
   - Rows whose values produce no rectangle need a closer look

5. SAVE AND EXPORT:
   - Use 'citation_save_page' to keep the reviewed rows of each page
   - Use 'citation_export_csv' once every page is reviewed

IMPORTANT NOTES:
- Paths may be absolute or relative to the configured directory
- The server can handle files up to %dMB
- Repeated requests for the same page are served from a page cache`, s.pathValidator.Root(), s.maxFileSize/(1024*1024))
}
