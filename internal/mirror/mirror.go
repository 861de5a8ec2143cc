package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/astrovis/texfetch/internal/manifest"
)

// PushResult summarizes a completed push.
type PushResult struct {
	Pushed int
	Bytes  int64
}

// Push uploads every manifest file from destDir into the bucket under
// prefix. It fails on the first error; a mirror is only useful complete.
func Push(ctx context.Context, bucket *blob.Bucket, destDir, prefix string, m *manifest.Manifest, runID string) (*PushResult, error) {
	result := &PushResult{}

	for _, e := range m.Entries {
		localPath := filepath.Join(destDir, e.LocalName)
		key := objectKey(prefix, e.LocalName)

		n, err := pushFile(ctx, bucket, localPath, key, e, m.RemoteURL(e), runID)
		if err != nil {
			return nil, fmt.Errorf("mirror %s: %w", e.LocalName, err)
		}

		result.Pushed++
		result.Bytes += n
	}

	return result, nil
}

// pushFile uploads a single file. Split out so the blob writer is closed
// before the next file opens.
func pushFile(ctx context.Context, bucket *blob.Bucket, localPath, key string, e manifest.Entry, sourceURL, runID string) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	metadata := map[string]string{
		"source_url": sourceURL,
		"run_id":     runID,
	}
	if e.Digest != "" {
		metadata["sha256"] = e.Digest
	}

	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{Metadata: metadata})
	if err != nil {
		return 0, fmt.Errorf("create writer: %w", err)
	}

	n, err := io.Copy(w, f)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("copy: %w", err)
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close writer: %w", err)
	}
	return n, nil
}

// CheckResult reports the state of a mirrored manifest.
type CheckResult struct {
	Valid          bool
	Objects        int
	Missing        int
	SizeMismatches int
	Errors         []string
}

// Check verifies that every manifest file exists in the bucket with a size
// matching the local copy in destDir. Only metadata is read; no object
// data is downloaded.
func Check(ctx context.Context, bucket *blob.Bucket, destDir, prefix string, m *manifest.Manifest) (*CheckResult, error) {
	result := &CheckResult{Valid: true}

	for _, e := range m.Entries {
		key := objectKey(prefix, e.LocalName)
		result.Objects++

		attrs, err := bucket.Attributes(ctx, key)
		if err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				result.Valid = false
				result.Missing++
				result.Errors = append(result.Errors, fmt.Sprintf("missing object: %s", key))
				continue
			}
			return nil, fmt.Errorf("attributes %s: %w", key, err)
		}

		info, err := os.Stat(filepath.Join(destDir, e.LocalName))
		if err != nil {
			return nil, fmt.Errorf("stat local file %s: %w", e.LocalName, err)
		}

		if attrs.Size != info.Size() {
			result.Valid = false
			result.SizeMismatches++
			result.Errors = append(result.Errors,
				fmt.Sprintf("size mismatch: %s is %d bytes, local is %d", key, attrs.Size, info.Size()))
		}
	}

	return result, nil
}

// objectKey joins the prefix and local name with forward slashes, which
// blob keys always use.
func objectKey(prefix, localName string) string {
	if prefix == "" {
		return localName
	}
	return path.Join(prefix, localName)
}
