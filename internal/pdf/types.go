package pdf

import "github.com/a3tai/mcp-citation-auditor/internal/highlight"

// PageTextRequest asks for the text layer of one page.
type PageTextRequest struct {
	Path string `json:"path"`
	Page int    `json:"page"`
}

// PageSnapshot is everything read from one page of a document: the
// positioned text layer the highlighter works on and the plain text sent to
// citation extraction.
type PageSnapshot struct {
	Path      string         `json:"path"`
	PageCount int            `json:"page_count"`
	Text      string         `json:"text"`
	Page      highlight.Page `json:"page"`
	// NeedsOCR is set when the page carries too little text to audit, which
	// usually means it is a scan.
	NeedsOCR bool `json:"needs_ocr"`
}

// Number returns the 1-based page number.
func (s *PageSnapshot) Number() int {
	return s.Page.Number
}

// ValidateFileRequest asks whether a file is a readable PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult is the answer to a ValidateFileRequest.
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// ServerInfoResult describes the running server to a client.
type ServerInfoResult struct {
	ServerName       string     `json:"server_name"`
	Version          string     `json:"version"`
	DefaultDirectory string     `json:"default_directory"`
	MaxFileSize      int64      `json:"max_file_size"`
	ReportName       string     `json:"report_name"`
	AvailableTools   []ToolInfo `json:"available_tools"`
	Cache            CacheStats `json:"cache"`
	UsageGuidance    string     `json:"usage_guidance"`
}

// ToolInfo describes one tool exposed by the server.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
