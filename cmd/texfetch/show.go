package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/astrovis/texfetch/internal/config"
)

// runShow prints the effective manifest after config resolution.
func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	manifestPath := fs.String("manifest", "", "Manifest YAML file (default: built-in texture set)")
	baseURL := fs.String("base-url", "", "Override the manifest base URL")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: texfetch show [options]

Print every manifest entry with its download URL and expected digest.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	_, m, code := loadConfigAndManifest(*configPath, config.Config{
		ManifestPath: *manifestPath,
		BaseURL:      *baseURL,
	})
	if code != ExitSuccess {
		return code
	}

	fmt.Printf("Base URL: %s\n", m.BaseURL)
	fmt.Printf("Files:    %d\n\n", len(m.Entries))

	for _, e := range m.Entries {
		digest := e.Digest
		if digest == "" {
			digest = "-"
		}
		fmt.Printf("  %-20s %-32s %s\n", e.LocalName, e.RemoteName, digest)
	}

	return ExitSuccess
}
