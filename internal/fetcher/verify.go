package fetcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// copyChunkSize is the read/write granularity of the streaming verifier.
const copyChunkSize = 64 * 1024

// writeAndVerify streams the body to task.LocalPath while computing a
// running SHA-256, then compares against the expected digest if one is
// set. Partial files are intentionally left on disk on both network
// failure and digest mismatch; verification is advisory, not a gate that
// deletes data.
func writeAndVerify(body io.Reader, task Task) Outcome {
	if dir := filepath.Dir(task.LocalPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Outcome{
				Task:   task,
				Status: StatusNetworkFailure,
				Detail: fmt.Sprintf("create destination directory: %v", err),
			}
		}
	}

	f, err := os.OpenFile(task.LocalPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Outcome{
			Task:   task,
			Status: StatusNetworkFailure,
			Detail: fmt.Sprintf("open destination file: %v", err),
		}
	}
	defer f.Close()

	hash := sha256.New()
	buf := make([]byte, copyChunkSize)
	var written int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			// Write first, then hash: both must see every chunk.
			nw, writeErr := f.Write(buf[:n])
			written += int64(nw)
			if writeErr != nil {
				return Outcome{
					Task:         task,
					Status:       StatusNetworkFailure,
					BytesWritten: written,
					Detail:       fmt.Sprintf("write: %v", writeErr),
				}
			}
			hash.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Outcome{
				Task:         task,
				Status:       StatusNetworkFailure,
				BytesWritten: written,
				Detail:       fmt.Sprintf("read: %v", readErr),
			}
		}
	}

	if task.ExpectedDigest == "" {
		return Outcome{Task: task, Status: StatusOK, BytesWritten: written}
	}

	actual := hex.EncodeToString(hash.Sum(nil))
	if !strings.EqualFold(actual, task.ExpectedDigest) {
		return Outcome{
			Task:         task,
			Status:       StatusDigestMismatch,
			BytesWritten: written,
			Detail:       fmt.Sprintf("sha256 mismatch: expected %s, got %s", strings.ToLower(task.ExpectedDigest), actual),
		}
	}

	return Outcome{Task: task, Status: StatusOK, BytesWritten: written}
}

// HashFile computes the hex-encoded SHA-256 of an existing local file,
// reading it in the same chunk size the verifier writes with.
func HashFile(path string) (digest string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	hash := sha256.New()
	n, err := io.CopyBuffer(hash, f, make([]byte, copyChunkSize))
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), n, nil
}
