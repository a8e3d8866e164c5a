package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/a3tai/mcp-citation-auditor/internal/api"
	"github.com/a3tai/mcp-citation-auditor/internal/audit"
	"github.com/a3tai/mcp-citation-auditor/internal/config"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
	"github.com/a3tai/mcp-citation-auditor/internal/mcp"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in stdio mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		// In server mode, use normal stdout logging with more detail
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// newExtractor returns the OpenAI client, or llm.Unavailable when no key is
// configured so that the rest of the auditor still works.
func newExtractor(cfg *config.Config) (llm.Extractor, error) {
	if !cfg.HasOpenAIKey() {
		log.Printf("No OpenAI API key configured, citation extraction and classification are disabled")
		return llm.Unavailable{}, nil
	}

	client, err := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return client, nil
}

// newAuditService wires the page reader and the model into the audit service
func newAuditService(cfg *config.Config) (*audit.Service, error) {
	pdfService, err := pdf.NewService(pdf.Options{
		MaxFileSize: cfg.MaxFileSize,
		Directory:   cfg.PDFDirectory,
		CacheSize:   cfg.CacheSize,
		OCRMinChars: cfg.OCRMinChars,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF service: %w", err)
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		return nil, err
	}

	return audit.NewService(pdfService, extractor, cfg.ReportName)
}

// runServerMode serves the HTTP API and the MCP endpoint until a signal
// arrives, then shuts down gracefully
func runServerMode(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on http://%s (MCP endpoint /mcp)", cfg.Address())
		serverErrCh <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
	case <-ctx.Done():
	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	log.Println("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Println("Server stopped successfully")
	return nil
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	auditService, err := newAuditService(cfg)
	if err != nil {
		log.Fatalf("Failed to create audit service: %v", err)
	}

	server, err := mcp.NewServer(cfg, auditService)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		handler := api.NewServer(auditService, server.HTTPHandler(), log.Default())
		if err := runServerMode(ctx, cfg, handler); err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
		return
	}
	runStdioMode(ctx, server)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Citation Auditor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
