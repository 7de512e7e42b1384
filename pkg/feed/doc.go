// Package feed is an HTTP client for NuGet v3 flat-container feeds.
//
// A flat container addresses every file by a lower-case path below one
// base URL:
//
//	<base>/<id>/index.json                   version index
//	<base>/<id>/<version>/<id>.nuspec        package manifest
//	<base>/<id>/<version>/<id>.<version>.nupkg
//
// [Client] implements the download transport used by the resolution
// engine (Get, GetIfNewer), answers existence and checksum queries with
// HEAD requests, and serves version indexes through a [cache.Cache].
//
// Transient failures (network errors, 5xx responses) are retried inside
// the client with [httputil.Retry]. A 404 is returned immediately as a
// RESOURCE_NOT_FOUND error.
package feed
