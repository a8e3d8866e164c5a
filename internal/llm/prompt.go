package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
)

const extractionRules = `You read one page of a legal expert report and return every citation on it as rows of the JSON schema.

General rules:
- Extract every citation. Use the paragraph number of the main body text the citation supports; never guess it.
- Use only the schema field names. Empty fields are "" (never "nan").
- Drop rows whose fields would all be blank.
- Capitalize the first letter of date and cites.
- Report Name is always: %s

Asserted patents and tables of contents:
- If the page mentions asserted patents or patents-in-suit, do not extract patent numbers or their pinpoint cites.
- A table of contents page yields no rows.

Continuity:
- A page that starts mid-paragraph keeps the last paragraph number of the previous page until a new number appears.
- "Id." refers to the closest earlier citation that is not itself "Id.".
- A Non-Bates exhibit cut off by the page edge is recorded as "Partially visible - may continue from previous or next page."

Splitting:
- Citations separated by semicolons are separate rows.
- Every Bates number or range and every exhibit gets its own row.
- A footnote mixing prose sources and Bates numbers becomes one row per source.

Field mapping:
- "TOT00191801-16 at TOT00191805": BatesBegin TOT00191801, BatesEnd TOT00191816, Pinpoint TOT00191805.
- "TOT00189044-TOT00189059": BatesBegin and BatesEnd; a single Bates number leaves BatesEnd blank.
- "APPLE_INTEL_000015 at lines 3258-3285": Pinpoint APPLE_INTEL_000015, Code Lines "lines 3258-3285".
- "Sebini.rough tr. at 23:21-25:1": Non-Bates Exhibits is the transcript, Code Lines the page and line numbers.
- Websites, standards and treatises: Code Lines holds only the page or access date, Non-Bates Exhibits everything else.
- "Prashant Vashi Deposition (3/28/24) at 35:17-36:22": Depositions "Prashant Vashi", date "3/28/24", cites "35:17-36:22".
- "Conversation with Dr. Larson on August 22, 2024": Non-Bates Exhibits holds the full text.`

// extractionInstructions builds the system instructions for one page.
func extractionInstructions(req PageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, extractionRules, req.Report())

	b.WriteString("\n\nCorrected examples:\n")
	if len(req.FewShotExamples) == 0 {
		b.WriteString("None yet.")
	} else {
		examples, _ := json.MarshalIndent(req.FewShotExamples, "", "  ")
		b.WriteString("Follow the patterns of these rows, which a reviewer corrected by hand:\n")
		b.Write(examples)
	}

	if req.Memory != nil {
		memory, _ := json.Marshal(req.Memory)
		b.WriteString("\n\nState carried from the previous page:\n")
		b.Write(memory)
	}

	return b.String()
}

// extractionInput is the user message for one page.
func extractionInput(req PageRequest) string {
	return fmt.Sprintf("Page %d text:\n\n%s", req.PageNumber, req.PageText)
}

const classificationInstructions = "You are a precise legal citation classifier. Answer with the category name only."

// classificationInput is the user message for one snippet.
func classificationInput(req ClassifyRequest) string {
	labels := make([]string, len(citation.Categories))
	for i, c := range citation.Categories {
		labels[i] = "- " + string(c)
	}

	return fmt.Sprintf(`Classify the selected text from a legal expert report into exactly one category:
%s

Rules:
- Bates numbers and ranges such as "TOT00191801-16" or "APPLE_000123" are Bates Begin.
- Line references such as "lines 3258-3285" or "23:21-25:1" are Code Lines.
- A deponent's name with deposition formatting is Depositions.
- Other sources (conversations, transcripts, URLs, publications) are Non-Bates Exhibits.
- Clear dates are Date. Page and line cites of a deposition are Cites.
- A reference after "at" following a Bates number is Pinpoint.
- Report Name only when the text is the report name %q.
- A bare paragraph number is Para. No.
- Uncategorized only when nothing fits.

Selected text:
%q`, strings.Join(labels, "\n"), reportOrDefault(req.ReportName), req.SelectedText)
}

func reportOrDefault(name string) string {
	if name == "" {
		return DefaultReportName
	}
	return name
}

// extractionSchema is the strict JSON schema of an extraction answer.
func extractionSchema() map[string]any {
	str := map[string]any{"type": "string"}

	row := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Non-Bates Exhibits": str,
			"Depositions":        str,
			"date":               str,
			"cites":              str,
			"BatesBegin":         str,
			"BatesEnd":           str,
			"Pinpoint":           str,
			"Code Lines":         str,
			"Report Name":        str,
			"Paragraph No.":      map[string]any{"type": "integer"},
		},
		"required":             citation.Columns,
		"additionalProperties": false,
	}

	memory := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"last_paragraph_number_used":  map[string]any{"type": []string{"integer", "null"}},
			"incomplete_exhibit_detected": map[string]any{"type": "boolean"},
			"raw_text":                    str,
			"last_page_processed":         map[string]any{"type": "integer"},
		},
		"required": []string{
			"last_paragraph_number_used",
			"incomplete_exhibit_detected",
			"raw_text",
			"last_page_processed",
		},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"citations": map[string]any{"type": "array", "items": row},
			"memory":    memory,
		},
		"required":             []string{"citations", "memory"},
		"additionalProperties": false,
	}
}
