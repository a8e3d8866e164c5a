package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is the column a piece of selected text belongs to.
type Category string

const (
	CategoryNonBatesExhibits Category = "Non-Bates Exhibits"
	CategoryDepositions      Category = "Depositions"
	CategoryDate             Category = "Date"
	CategoryCites            Category = "Cites"
	CategoryBatesBegin       Category = "Bates Begin"
	CategoryBatesEnd         Category = "Bates End"
	CategoryBatesRange       Category = "Bates Range"
	CategoryPinpoint         Category = "Pinpoint"
	CategoryCodeLines        Category = "Code Lines"
	CategoryReportName       Category = "Report Name"
	CategoryParagraphNo      Category = "Para. No."
	CategoryUncategorized    Category = "Uncategorized"
)

// Categories lists the labels a classifier may answer with. Bates Range is
// derived locally and never requested from the model.
var Categories = []Category{
	CategoryNonBatesExhibits,
	CategoryDepositions,
	CategoryDate,
	CategoryCites,
	CategoryBatesBegin,
	CategoryBatesEnd,
	CategoryPinpoint,
	CategoryCodeLines,
	CategoryReportName,
	CategoryParagraphNo,
	CategoryUncategorized,
}

// Classification is the answer for one piece of selected text.
type Classification struct {
	Category   Category `json:"category"`
	Value      string   `json:"value"`
	BatesBegin *string  `json:"batesBegin"`
	BatesEnd   *string  `json:"batesEnd"`
	PageNumber int      `json:"pageNumber,omitempty"`
	ReportName string   `json:"reportName,omitempty"`
}

var (
	batesRangeRe    = regexp.MustCompile(`(?i)^([A-Z0-9_]+)-([A-Z0-9_]+)$`)
	trailingNoiseRe = regexp.MustCompile(`[•\-\s]+$`)
)

// ParseCategory cleans a raw model answer into a Category. Unknown labels
// map to CategoryUncategorized.
func ParseCategory(raw string) Category {
	label := strings.TrimSpace(trailingNoiseRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	label = strings.Trim(label, `"'`)
	for _, c := range Categories {
		if strings.EqualFold(label, string(c)) {
			return c
		}
	}
	return CategoryUncategorized
}

// Classify builds a Classification for value. Bates answers whose value is
// a range such as "TOT001-TOT005" are split into begin and end.
func Classify(category Category, value string) Classification {
	c := Classification{Category: category, Value: value}
	if category != CategoryBatesBegin && category != CategoryBatesEnd {
		return c
	}

	if m := batesRangeRe.FindStringSubmatch(value); m != nil {
		begin, end := m[1], m[2]
		c.Category = CategoryBatesRange
		c.BatesBegin = &begin
		c.BatesEnd = &end
	}
	return c
}

// Apply writes the classified value into the matching column of e. It
// returns false when the category has no column.
func (c Classification) Apply(e *Entry) bool {
	switch c.Category {
	case CategoryNonBatesExhibits:
		e.NonBatesExhibits = c.Value
	case CategoryDepositions:
		e.Depositions = c.Value
	case CategoryDate:
		e.Date = c.Value
	case CategoryCites:
		e.Cites = c.Value
	case CategoryBatesBegin:
		e.BatesBegin = c.Value
	case CategoryBatesEnd:
		e.BatesEnd = c.Value
	case CategoryBatesRange:
		e.BatesBegin = *c.BatesBegin
		e.BatesEnd = *c.BatesEnd
	case CategoryPinpoint:
		e.Pinpoint = c.Value
	case CategoryCodeLines:
		e.CodeLines = c.Value
	case CategoryReportName:
		e.ReportName = c.Value
	case CategoryParagraphNo:
		n, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			return false
		}
		e.ParagraphNo = n
	default:
		return false
	}
	return true
}
