// Package fetcher downloads a manifest of remote files in parallel and
// verifies each against an optional SHA-256 digest.
//
// This package coordinates between the transport client and the local
// filesystem. It manages the worker pool, classifies every per-file result
// into exactly one outcome, and assembles the ordered run summary.
//
// # Usage
//
// The main entry point is the Run function:
//
//	summary := fetcher.Run(ctx, tasks, fetcher.Options{
//	    Transport: transport.NewClient(transport.DefaultOptions()),
//	    Workers:   10,
//	})
//	if !summary.OK() {
//	    // at least one file failed
//	}
//
// # Worker Pool
//
// A fixed number of workers receive task indices from a channel, open the
// remote stream, and write it to disk while hashing. The pool blocks on a
// completion barrier; the summary is built only after every task has
// produced its outcome, and always lists outcomes in manifest order.
//
// # Failure Policy
//
// Per-file failures never abort sibling downloads. Network and I/O errors
// become StatusNetworkFailure, digest disagreement becomes
// StatusDigestMismatch, and in both cases whatever was written stays on
// disk for inspection.
package fetcher
