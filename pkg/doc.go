// Package pkg provides the core libraries of nugetbridge, which serves NuGet
// packages to Maven-style builds.
//
// # Overview
//
// A Maven build asks for files such as
//
//	acme/widget/1.2.0/widget-1.2.0.dll
//	acme/widget/1.2.0/widget-1.2.0.pom
//	acme/widget/maven-metadata.xml
//
// nugetbridge answers them from a NuGet flat-container feed: binaries are
// extracted from the package archive for a target framework, package
// manifests become POM files and version indexes become maven-metadata.xml.
//
// # Architecture
//
// The data flow of a single request:
//
//	repository path
//	         ↓
//	    [coordinate] package (parse into a request kind)
//	         ↓
//	    [fetch] package (download the backing feed file once per key)
//	         ↓
//	    [archive] / [descriptor] packages (extract a binary or transform)
//	         ↓
//	    file in the local repository
//
// [bridge.Engine] ties these together; [feed.Client] is the HTTP transport.
//
// # Main Packages
//
//   - [coordinate]: repository paths, request kinds and feed keys
//   - [framework]: target framework versions and best-match selection
//   - [fetch]: per-key download coordination with atomic publication
//   - [archive]: package unpacking and the binary search order
//   - [descriptor]: maven-metadata.xml and POM generation
//   - [bridge]: the resolution engine
//   - [feed]: NuGet v3 flat-container client with retries and caching
//   - [server]: HTTP front end for the repository layout
//
// # Infrastructure
//
//   - [cache]: file, Redis and null caches for version indexes
//   - [history]: file, MongoDB and null stores for the extraction log
//   - [config]: TOML configuration
//   - [httputil]: retry with backoff
//   - [observability]: instrumentation hooks
//   - [errors]: coded errors
//   - [buildinfo]: version information
package pkg
