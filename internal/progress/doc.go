// Package progress provides progress reporting for manifest downloads.
//
// The reporter tracks per-file completion with atomic counters and
// periodically prints a status line. It also exposes the byte and duration
// formatting helpers used by the final run report.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalFiles: len(tasks),
//	    Workers:    workers,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// From workers, as files complete:
//	reporter.FileCompleted(bytesWritten)
package progress
