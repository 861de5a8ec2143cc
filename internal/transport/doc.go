// Package transport provides the HTTPS GET capability consumed by the
// fetcher.
//
// The client opens a sequentially-readable byte stream for a remote URL, or
// fails with a classified error (connection, TLS, timeout, non-2xx status).
// Failures are terminal per request; retry policy is deliberately left to
// the caller, which treats each file as fail-fast.
//
// # Usage
//
//	client := transport.NewClient(transport.Options{
//	    Timeout: 10 * time.Second,
//	})
//
//	body, err := client.Open(ctx, url)
//	if err != nil { ... }
//	defer body.Close()
package transport
