package fetcher

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astrovis/texfetch/internal/manifest"
	"github.com/astrovis/texfetch/internal/progress"
)

// Transport is the blocking GET capability consumed by the fetcher. It
// returns an open byte stream of unknown length, or an error covering
// connection, TLS, timeout, and non-2xx failures.
type Transport interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Task describes a single download: where to fetch from, where to write,
// and optionally what the content must hash to. Tasks are immutable.
type Task struct {
	// LocalPath is the destination file path. Unique per task.
	LocalPath string

	// RemoteURL is the source URL.
	RemoteURL string

	// ExpectedDigest is the hex-encoded SHA-256 of the expected content.
	// Empty means no verification.
	ExpectedDigest string
}

// Status classifies the terminal result of a task.
type Status string

const (
	// StatusOK means the stream completed and, if a digest was expected,
	// it matched.
	StatusOK Status = "ok"
	// StatusNetworkFailure covers connection, TLS, timeout, non-2xx and
	// truncated-stream errors, plus any unclassified task failure.
	StatusNetworkFailure Status = "network_failure"
	// StatusDigestMismatch means the stream was fully received but its
	// SHA-256 disagrees with the expected digest.
	StatusDigestMismatch Status = "digest_mismatch"
)

// Outcome is the terminal result of one task. Exactly one outcome exists
// per task; Detail is non-empty iff Status is not StatusOK.
type Outcome struct {
	Task         Task
	Status       Status
	BytesWritten int64
	Detail       string
}

// Summary aggregates the outcomes of a whole run. Outcomes are ordered by
// manifest declaration order regardless of completion order.
type Summary struct {
	RunID    string
	Outcomes []Outcome
	Failed   []string // local paths of non-OK outcomes, manifest order
	Bytes    int64
	Elapsed  time.Duration
}

// OK reports whether every task succeeded.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0
}

// Options configures a fetch run.
type Options struct {
	// Transport opens remote streams. Required.
	Transport Transport

	// Workers is the number of parallel download workers.
	// Default: 10
	Workers int

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// TasksFromManifest builds the task list for a manifest, placing each file
// at destDir/localName.
func TasksFromManifest(m *manifest.Manifest, destDir string) []Task {
	tasks := make([]Task, 0, len(m.Entries))
	for _, e := range m.Entries {
		tasks = append(tasks, Task{
			LocalPath:      filepath.Join(destDir, e.LocalName),
			RemoteURL:      m.RemoteURL(e),
			ExpectedDigest: e.Digest,
		})
	}
	return tasks
}

// Run executes all tasks under the configured concurrency limit and blocks
// until every task has an outcome. One bad download never stops the rest;
// Run itself never fails, it reports.
func Run(ctx context.Context, tasks []Task, opts Options) *Summary {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.Workers > len(tasks) {
		opts.Workers = len(tasks)
	}

	start := time.Now()
	outcomes := make([]Outcome, len(tasks))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = fetchOne(ctx, opts.Transport, tasks[idx], opts.Progress)
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	// Completion barrier: no summary until all outcomes are in.
	wg.Wait()

	summary := &Summary{
		RunID:    uuid.NewString(),
		Outcomes: outcomes,
		Elapsed:  time.Since(start),
	}
	for _, o := range outcomes {
		summary.Bytes += o.BytesWritten
		if o.Status != StatusOK {
			summary.Failed = append(summary.Failed, o.Task.LocalPath)
		}
	}
	return summary
}

// fetchOne opens the remote stream and hands it to the streaming verifier.
// Every failure mode is converted into an outcome; nothing escapes.
func fetchOne(ctx context.Context, tr Transport, task Task, reporter *progress.Reporter) Outcome {
	if reporter != nil {
		reporter.FileStarted()
	}

	body, err := tr.Open(ctx, task.RemoteURL)
	if err != nil {
		if reporter != nil {
			reporter.FileFailed()
		}
		return Outcome{
			Task:   task,
			Status: StatusNetworkFailure,
			Detail: err.Error(),
		}
	}
	defer body.Close()

	outcome := writeAndVerify(body, task)

	if reporter != nil {
		if outcome.Status == StatusOK {
			reporter.FileCompleted(outcome.BytesWritten)
		} else {
			reporter.FileFailed()
		}
	}
	return outcome
}
