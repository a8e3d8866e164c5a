// Package descriptions holds the long-form tool descriptions shown to MCP
// clients and repeated in the server info result.
package descriptions

import "sort"

// Tool names.
const (
	ToolPageText      = "pdf_page_text"
	ToolListDocuments = "pdf_list_documents"
	ToolServerInfo    = "pdf_server_info"
	ToolHighlights    = "citation_highlights"
	ToolExtract       = "citation_extract"
	ToolClassify      = "citation_classify"
	ToolSavePage      = "citation_save_page"
	ToolExportCSV     = "citation_export_csv"
)

const (
	PageTextDescription = `Read the text layer of one page of an expert report.

**When to use:** Before extracting citations, or to check that a page has selectable text at all.

**Returns:** the plain page text, the positioned text runs used for highlighting, the page size and a needs_ocr flag.

**Examples:**
• "Show me the text of page 12 of vashi-report.pdf"
• "Does page 3 of the rebuttal have a text layer?"

**Best practices:** If needs_ocr is true the page is most likely a scan; highlights and extraction will find little or nothing on it.`

	ListDocumentsDescription = `List the PDF reports available under the configured directory.

**When to use:** To find the path of a report before reading or auditing it.

**Examples:**
• "Which expert reports are available?"
• "Find the Larson rebuttal report" (query: "larson rebuttal")

**Best practices:** The query matches file names loosely, word by word.`

	HighlightsDescription = `Locate citation values on a page and return the rectangles to paint.

**When to use:** To verify an extracted citation table against the page it came from, or to find a search term on the page.

**How it works:** Every citation field longer than three characters (Non-Bates Exhibits, Depositions, BatesBegin, BatesEnd, Pinpoint, Code Lines, cites) is searched for in the page text, ignoring case and punctuation and tolerating words split across text runs. Each match yields a rectangle tagged with its citation row and styled with that row's colour.

**Examples:**
• "Highlight the citations I extracted on page 7"
• "Where does TOT00191805 appear on page 7?" (search_term)

**Best practices:** Pass hovered to emphasise one row and dim the others, and explain to see which text runs each rectangle covers. Values that cannot be found produce no rectangle; that is the signal for a human to check the row.`

	ExtractDescription = `Extract the citation table of one page with a language model.

**When to use:** To build the audit table for a page of an expert report.

**Returns:** rows with Non-Bates Exhibits, Depositions, date, cites, BatesBegin, BatesEnd, Pinpoint, Code Lines, Report Name and Paragraph No., plus memory carried to the next page.

**Best practices:** Review the rows with citation_highlights. Requires an OpenAI API key.`

	ClassifyDescription = `Classify a selected snippet of text into a citation column.

**When to use:** When a reviewer selects text on the page that the extraction missed.

**Returns:** the category (for example Depositions, Bates Begin, Pinpoint) and the value. Bates ranges such as TOT001-TOT005 are split into begin and end.`

	SavePageDescription = `Save the reviewed citation rows of one page into the report's audit table.

**When to use:** After checking a page's rows with citation_highlights. Saving the same page twice appends its rows again.

**Returns:** the number of rows saved and the running total for the report.`

	ExportCSVDescription = `Export citation rows as CSV in the audit spreadsheet's column order.

**When to use:** Once the rows of all pages are reviewed. Without a citations argument the saved audit table is exported.`

	ServerInfoDescription = `Describe this server: tools, document directory, limits and page cache statistics.

**When to use:** First call in a session, to learn the available tools and where reports live.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	ToolPageText:      PageTextDescription,
	ToolListDocuments: ListDocumentsDescription,
	ToolServerInfo:    ServerInfoDescription,
	ToolHighlights:    HighlightsDescription,
	ToolExtract:       ExtractDescription,
	ToolClassify:      ClassifyDescription,
	ToolSavePage:      SavePageDescription,
	ToolExportCSV:     ExportCSVDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
