package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/astrovis/texfetch/internal/config"
	"github.com/astrovis/texfetch/internal/mirror"
	"github.com/astrovis/texfetch/internal/progress"
)

// runMirror uploads fetched files into an object storage bucket.
func runMirror(args []string) int {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	dest := fs.String("dest", "", "Directory holding fetched files (default \"textures\")")
	manifestPath := fs.String("manifest", "", "Manifest YAML file (default: built-in texture set)")
	bucketURL := fs.String("bucket", "", "Bucket URL (file://, s3://, gs://)")
	prefix := fs.String("prefix", "textures", "Object key prefix")
	check := fs.Bool("check", false, "Verify the mirror after pushing")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: texfetch mirror -bucket <url> [options]

Copy fetched manifest files into an object storage bucket, stamping the
source URL, digest, and run ID into object metadata.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *bucketURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg, m, code := loadConfigAndManifest(*configPath, config.Config{
		DestDir:      *dest,
		ManifestPath: *manifestPath,
	})
	if code != ExitSuccess {
		return code
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[texfetch] Received interrupt, shutting down...")
		cancel()
	}()

	bucket, err := blob.OpenBucket(ctx, *bucketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bucket.Close()

	runID := uuid.NewString()

	result, err := mirror.Push(ctx, bucket, cfg.DestDir, *prefix, m, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	fmt.Printf("[texfetch] Mirrored %d files (%s) to %s | Run: %s\n",
		result.Pushed, progress.FormatBytes(result.Bytes), *bucketURL, runID)

	if *check {
		checkResult, err := mirror.Check(ctx, bucket, cfg.DestDir, *prefix, m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying mirror: %v\n", err)
			return ExitStorageError
		}
		if !checkResult.Valid {
			for _, msg := range checkResult.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", msg)
			}
			fmt.Fprintf(os.Stderr, "[texfetch] Mirror check failed: %d missing, %d size mismatches\n",
				checkResult.Missing, checkResult.SizeMismatches)
			return ExitFetchFailed
		}
		fmt.Printf("[texfetch] Mirror check passed: %d objects\n", checkResult.Objects)
	}

	return ExitSuccess
}
