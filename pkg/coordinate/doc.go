// Package coordinate models artifact coordinates in the consumer-facing
// repository layout and maps them onto NuGet feed resource keys.
//
// # Overview
//
// A build tool asks for files by path:
//
//	acme/widget/1.2.0/widget-1.2.0.dll
//	<group-as-path>/<artifact>/<version>/<artifact>-<version>[-<classifier>].<type>
//
// [Parse] turns such a path into a [Coordinate]. The coordinate then names
// the feed resource that backs it via [Coordinate.ResourceString]:
//
//	acme/1.2.0/acme.1.2.0.nupkg     archive, for binaries and feed files
//	acme/1.2.0/acme.nuspec          manifest, for descriptor requests
//	acme/index.json                 version index, for metadata requests
//
// # Request kinds
//
// [Coordinate.Kind] classifies a request:
//
//   - [KindMetadata]: maven-metadata.xml, answered from the version index
//   - [KindFeedFile]: .nupkg or .nuspec, served verbatim
//   - [KindSpecification]: .pom, generated from the manifest
//   - [KindLibrary]: .dll, extracted from the archive
//   - [KindTool]: .exe, extracted from the archive's tools directory
//
// # Backing archive
//
// Many requests share one archive. [Coordinate.CorrespondingDownloadArtifact]
// returns the coordinate of that archive so that all of them deduplicate on
// the same resource key.
package coordinate
