// Package bridge answers Maven repository requests from a NuGet feed.
//
// An [Engine] receives a repository resource path such as
//
//	acme/widget/1.2.0/widget-1.2.0.dll
//
// and a local destination file. It parses the path into a coordinate,
// decides what kind of request it is and produces the file:
//
//   - maven-metadata.xml: downloads the package's version index and
//     converts it to Maven metadata
//   - .nupkg and .nuspec: downloads the feed file verbatim
//   - .pom: downloads the manifest and converts it to a POM
//   - .dll: downloads the package archive, unpacks it and picks the binary
//     for the configured target framework
//   - .exe: like .dll, from the archive's tools directory
//
// Package archives are stored inside the local repository next to the
// requested artifact's own directory, so one download serves every binary
// and descriptor derived from it. Downloads are deduplicated per feed key
// by a shared [fetch.Coordinator].
//
// The engine is read-only and never retries; retry policy belongs to the
// transport.
package bridge
