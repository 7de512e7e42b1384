// Package fetch deduplicates concurrent downloads of feed resources.
//
// A [Coordinator] owns a map from resource key to lock. Callers asking for
// the same key serialize on that lock; callers for different keys download
// in parallel. Every transfer lands in a uniquely named temporary file
// beside the destination and is published with a single rename, so a
// destination path is either absent or complete:
//
//	coord := fetch.NewCoordinator(logger)
//	err := coord.Fetch(ctx, transport, c.CorrespondingDownloadArtifact(), "/repo/acme/acme/1.2.0/acme-1.2.0.nupkg")
//
// The coordinator never retries. A failed transfer or rename is returned
// as a TRANSFER_FAILED error and the temporary file is removed; retries
// belong to the [Transport]. A RESOURCE_NOT_FOUND error from the transport
// and context cancellation are returned unchanged.
//
// Locking is intra-process only. Two processes writing the same
// destination are not protected against each other.
package fetch
