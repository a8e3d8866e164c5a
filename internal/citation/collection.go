package citation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// DropBlank returns the entries that have at least one non-empty field.
func DropBlank(entries []Entry) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsBlank() {
			kept = append(kept, e)
		}
	}
	return kept
}

// Collection accumulates the rows saved from each page of a report in save
// order. It is safe for concurrent use.
type Collection struct {
	mu     sync.RWMutex
	report string
	rows   []Entry
}

// NewCollection creates an empty collection for the named report.
func NewCollection(report string) *Collection {
	return &Collection{report: report}
}

// SavePage appends the rows of one page. Saving the same page twice appends
// again, the same way repeated saves behave in the table UI.
func (c *Collection) SavePage(page int, entries []Entry) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = append(c.rows, entries...)
	return len(entries)
}

// Entries returns every saved row in save order.
func (c *Collection) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]Entry(nil), c.rows...)
}

// Len returns the number of saved rows.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.rows)
}

// Report returns the report name the collection was created for.
func (c *Collection) Report() string {
	return c.report
}

// WriteCSV writes entries with a header row in Columns order.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		record := append(e.Values(), strconv.Itoa(e.ParagraphNo))
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
