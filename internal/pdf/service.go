package pdf

import (
	"fmt"
	"os"

	"github.com/a3tai/mcp-citation-auditor/internal/pdf/security"
)

// Service handles PDF page access by orchestrating the reader, the page
// cache and path security.
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	cache         *PageCache
	pathValidator *security.PathValidator
}

// Options configures a Service.
type Options struct {
	MaxFileSize int64
	Directory   string
	CacheSize   int
	OCRMinChars int
}

// NewService creates a new PDF service with all components
func NewService(opts Options) (*Service, error) {
	pathValidator, err := security.NewPathValidator(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   opts.MaxFileSize,
		reader:        NewReader(opts.MaxFileSize, opts.OCRMinChars),
		validator:     NewValidator(opts.MaxFileSize),
		cache:         NewPageCache(opts.CacheSize),
		pathValidator: pathValidator,
	}, nil
}

// PageText returns the snapshot of one page, from the cache when the file
// has not changed since it was last read.
func (s *Service) PageText(req PageTextRequest) (*PageSnapshot, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	key := cacheKey(path, info.ModTime(), info.Size(), req.Page)
	if snapshot, ok := s.cache.Get(key); ok {
		return snapshot, nil
	}

	snapshot, err := s.reader.ReadPage(path, req.Page)
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, snapshot)
	return snapshot, nil
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// CacheStats returns the page cache counters.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// Directory returns the document root.
func (s *Service) Directory() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}
