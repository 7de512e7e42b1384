// Package httputil provides retry helpers for feed clients.
//
// [Retry] re-runs an operation with exponential backoff, but only while it
// fails with a [RetryableError]. Clients wrap transient failures (network
// errors, 5xx responses) with [Retryable] and return everything else
// unwrapped, so that a 404 fails immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Retries happen inside the transport only. The resolution engine above it
// never retries on its own.
package httputil
