package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DocumentInfo describes one PDF under the document root.
type DocumentInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ListDocumentsRequest filters the document listing. Query matches file
// names loosely; Limit caps the result, zero meaning no cap.
type ListDocumentsRequest struct {
	Query string `json:"query,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// ListDocumentsResult is the document listing.
type ListDocumentsResult struct {
	Directory  string         `json:"directory"`
	Query      string         `json:"query,omitempty"`
	Documents  []DocumentInfo `json:"documents"`
	TotalCount int            `json:"total_count"`
	Truncated  bool           `json:"truncated,omitempty"`
}

// ListDocuments walks the document root for PDF files. Hidden directories
// and files outside the size limit are skipped.
func (s *Service) ListDocuments(req ListDocumentsRequest) (*ListDocumentsResult, error) {
	root, err := filepath.Abs(s.pathValidator.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	result := &ListDocumentsResult{
		Directory: root,
		Query:     req.Query,
		Documents: []DocumentInfo{},
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !isPDFName(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}
		if within, err := s.pathValidator.IsPathWithinRoot(path); err != nil || !within {
			return nil //nolint:nilerr // symlinks escaping the root are skipped
		}

		info, err := d.Info()
		if err != nil || info.Size() == 0 || info.Size() > s.maxFileSize {
			return nil //nolint:nilerr // unusable files are skipped
		}

		if req.Limit > 0 && len(result.Documents) >= req.Limit {
			result.Truncated = true
			return filepath.SkipAll
		}

		result.Documents = append(result.Documents, DocumentInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	result.TotalCount = len(result.Documents)
	return result, nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// matchesQuery matches query against a file name: as a substring of the
// name, or word by word against its separator-delimited parts. query must
// already be lowercase.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitName(name)
	for _, q := range splitName(query) {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitName(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}
