package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrovis/texfetch/internal/config"
	"github.com/astrovis/texfetch/internal/fetcher"
	"github.com/astrovis/texfetch/internal/progress"
)

// runCheck re-hashes already-downloaded files against the manifest without
// touching the network.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	dest := fs.String("dest", "", "Destination directory (default \"textures\")")
	manifestPath := fs.String("manifest", "", "Manifest YAML file (default: built-in texture set)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: texfetch check [options]

Verify previously fetched files on disk. Every manifest entry with a
declared SHA-256 digest is re-hashed and compared; entries without a
digest only need to exist.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, m, code := loadConfigAndManifest(*configPath, config.Config{
		DestDir:      *dest,
		ManifestPath: *manifestPath,
	})
	if code != ExitSuccess {
		return code
	}

	var failed []string
	var totalBytes int64

	for _, e := range m.Entries {
		localPath := filepath.Join(cfg.DestDir, e.LocalName)

		if e.Digest == "" {
			info, err := os.Stat(localPath)
			if err != nil {
				fmt.Printf("  %s: FAILED: %v\n", e.LocalName, err)
				failed = append(failed, e.LocalName)
				continue
			}
			fmt.Printf("  %s: OK (%s, no digest)\n", e.LocalName, progress.FormatBytes(info.Size()))
			totalBytes += info.Size()
			continue
		}

		digest, size, err := fetcher.HashFile(localPath)
		if err != nil {
			fmt.Printf("  %s: FAILED: %v\n", e.LocalName, err)
			failed = append(failed, e.LocalName)
			continue
		}
		if !strings.EqualFold(digest, e.Digest) {
			fmt.Printf("  %s: FAILED: sha256 mismatch: expected %s, got %s\n", e.LocalName, e.Digest, digest)
			failed = append(failed, e.LocalName)
			continue
		}

		fmt.Printf("  %s: OK (%s)\n", e.LocalName, progress.FormatBytes(size))
		totalBytes += size
	}

	fmt.Printf("[texfetch] %d verified, %d failed | %s\n",
		len(m.Entries)-len(failed), len(failed), progress.FormatBytes(totalBytes))

	if len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "[texfetch] Failed: %s\n", strings.Join(failed, ", "))
		return ExitFetchFailed
	}
	return ExitSuccess
}
