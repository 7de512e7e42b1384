// Package descriptor converts feed payloads into Maven descriptors.
//
// Two conversions are provided:
//
//   - a feed version index (index.json) becomes a maven-metadata.xml
//     listing latest, release and all versions, see [NewMetadata]
//   - a package manifest (.nuspec) becomes a POM whose dependencies are
//     taken from the manifest's dependency group for the target
//     framework, see [NewPom]
//
// Both are pure functions over decoded values plus Read/Write helpers for
// the wire formats.
package descriptor
