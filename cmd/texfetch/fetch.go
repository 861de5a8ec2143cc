package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/astrovis/texfetch/internal/config"
	"github.com/astrovis/texfetch/internal/fetcher"
	"github.com/astrovis/texfetch/internal/manifest"
	"github.com/astrovis/texfetch/internal/progress"
	"github.com/astrovis/texfetch/internal/transport"
)

// runFetch downloads every manifest file in parallel, verifies digests
// where present, and reports one line per file plus a summary.
func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	dest := fs.String("dest", "", "Destination directory (default \"textures\")")
	manifestPath := fs.String("manifest", "", "Manifest YAML file (default: built-in texture set)")
	baseURL := fs.String("base-url", "", "Override the manifest base URL")
	workers := fs.Int("workers", 0, "Number of parallel download workers (default 10)")
	timeout := fs.Duration("timeout", 0, "Per-request connect/read timeout (default 10s)")
	showProgress := fs.Bool("progress", false, "Show live progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: texfetch fetch [options]

Download all manifest files in parallel, verifying each against its
expected SHA-256 digest where one is declared. Failed files never stop
the rest; the exit code reflects the aggregate result.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, m, code := loadConfigAndManifest(*configPath, config.Config{
		DestDir:      *dest,
		ManifestPath: *manifestPath,
		BaseURL:      *baseURL,
		Workers:      *workers,
		Timeout:      *timeout,
		Progress:     *showProgress,
	})
	if code != ExitSuccess {
		return code
	}

	// Unwritable destination is fatal before any task runs.
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating destination directory: %v\n", err)
		return ExitConfigError
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[texfetch] Received interrupt, shutting down...")
		cancel()
	}()

	tasks := fetcher.TasksFromManifest(m, cfg.DestDir)

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalFiles: len(tasks),
			Workers:    cfg.Workers,
			DestDir:    cfg.DestDir,
		})
		reporter.Start()
	}

	client := transport.NewClient(transport.Options{
		Timeout:             cfg.Timeout,
		MaxIdleConnsPerHost: cfg.Workers * 2,
	})

	summary := fetcher.Run(ctx, tasks, fetcher.Options{
		Transport: client,
		Workers:   cfg.Workers,
		Progress:  reporter,
	})

	if reporter != nil {
		reporter.Stop()
		fmt.Fprintln(os.Stderr)
	}

	printSummary(summary)

	if !summary.OK() {
		return ExitFetchFailed
	}
	return ExitSuccess
}

// loadConfigAndManifest resolves configuration (file, env, flags) and the
// manifest. Any problem here is a ConfigurationError: the run must not start.
func loadConfigAndManifest(configPath string, overrides config.Config) (config.Config, *manifest.Manifest, int) {
	cfg := config.Default()

	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return cfg, nil, ExitConfigError
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		return cfg, nil, ExitConfigError
	}

	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, ExitConfigError
	}

	m := manifest.Default()
	if cfg.ManifestPath != "" {
		loaded, err := manifest.Load(cfg.ManifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			return cfg, nil, ExitConfigError
		}
		m = loaded
	}

	if cfg.BaseURL != "" {
		m.BaseURL = cfg.BaseURL
		if err := m.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cfg, nil, ExitConfigError
		}
	}

	return cfg, m, ExitSuccess
}

// printSummary writes one line per outcome in manifest order, then the
// aggregate result.
func printSummary(summary *fetcher.Summary) {
	for _, o := range summary.Outcomes {
		name := filepath.Base(o.Task.LocalPath)
		switch o.Status {
		case fetcher.StatusOK:
			fmt.Printf("  %s: OK (%s)\n", name, progress.FormatBytes(o.BytesWritten))
		default:
			fmt.Printf("  %s: FAILED (%s): %s\n", name, o.Status, o.Detail)
		}
	}

	succeeded := len(summary.Outcomes) - len(summary.Failed)
	fmt.Printf("[texfetch] %d succeeded, %d failed | %s in %s | Run: %s\n",
		succeeded,
		len(summary.Failed),
		progress.FormatBytes(summary.Bytes),
		progress.FormatDuration(summary.Elapsed),
		summary.RunID,
	)

	if !summary.OK() {
		names := make([]string, 0, len(summary.Failed))
		for _, p := range summary.Failed {
			names = append(names, filepath.Base(p))
		}
		fmt.Fprintf(os.Stderr, "[texfetch] Failed: %s\n", strings.Join(names, ", "))
	}
}
