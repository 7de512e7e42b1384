package coordinate

import (
	"path"
	"strings"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// Well-known file names and types.
const (
	// MetadataFilename is the sentinel file name of a version-index request.
	MetadataFilename = "maven-metadata.xml"

	TypePackage       = "nupkg"
	TypeSpecification = "nuspec"
	TypePom           = "pom"
	TypeLibrary       = "dll"
	TypeTool          = "exe"

	indexFilename = "index.json"
)

// Kind classifies what an incoming request asks for.
type Kind int

const (
	// KindOther is any request whose type the engine does not transform.
	KindOther Kind = iota
	// KindMetadata is a version-index request (maven-metadata.xml).
	KindMetadata
	// KindFeedFile is a raw feed file (.nupkg or .nuspec) served verbatim.
	KindFeedFile
	// KindSpecification is a descriptor request (.pom) built from the nuspec.
	KindSpecification
	// KindLibrary is a .dll extracted from the archive.
	KindLibrary
	// KindTool is an .exe extracted from the archive's tools directory.
	KindTool
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindFeedFile:
		return "feed-file"
	case KindSpecification:
		return "specification"
	case KindLibrary:
		return "library"
	case KindTool:
		return "tool"
	default:
		return "other"
	}
}

// Coordinate identifies a single artifact in the consumer-facing layout.
//
// All textual fields are lower-cased at construction. Version is empty only
// for metadata coordinates. The zero value is not a valid coordinate; use
// [New], [NewMetadata] or [Parse].
//
// Coordinate is a value type and is never mutated after construction, so it
// is safe to share between goroutines.
type Coordinate struct {
	group      string
	artifact   string
	version    string
	classifier string
	typ        string
	metadata   bool
}

// New creates a coordinate from explicit fields.
// Pass an empty classifier for none.
func New(group, artifact, version, classifier, typ string) Coordinate {
	return Coordinate{
		group:      lower(group),
		artifact:   lower(artifact),
		version:    lower(version),
		classifier: lower(classifier),
		typ:        lower(typ),
	}
}

// NewMetadata creates the coordinate of a version-index request for
// group:artifact.
func NewMetadata(group, artifact string) Coordinate {
	return Coordinate{
		group:    lower(group),
		artifact: lower(artifact),
		typ:      "xml",
		metadata: true,
	}
}

// Parse reverse-engineers a coordinate from a slash-delimited repository
// resource path such as "acme/widget/1.2.0/widget-1.2.0.dll".
//
// The last segment yields the type (text after the last dot). For ordinary
// requests the two segments before it are artifact and version and every
// leading segment joins with "." into the group. When the last segment is
// [MetadataFilename] the request carries no version: the segment before the
// file name is the artifact and the remaining leading segments form the
// group. The group is the package id, so the version index is looked up by
// group alone.
//
// Returns a MALFORMED_RESOURCE error for paths with fewer than three
// segments.
func Parse(resourcePath string) (Coordinate, error) {
	parts := strings.Split(strings.Trim(resourcePath, "/"), "/")
	if len(parts) < 3 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedResource,
			"resource %q has %d path segments, need at least 3", resourcePath, len(parts))
	}

	last := parts[len(parts)-1]
	typ := last[strings.LastIndex(last, ".")+1:]

	if strings.EqualFold(last, MetadataFilename) {
		return Coordinate{
			group:    lower(strings.Join(parts[:len(parts)-2], ".")),
			artifact: lower(parts[len(parts)-2]),
			typ:      lower(typ),
			metadata: true,
		}, nil
	}

	artifact := parts[len(parts)-3]
	version := parts[len(parts)-2]
	group := strings.Join(parts[:len(parts)-3], ".")

	return New(group, artifact, version, classifierOf(last, artifact, version), typ), nil
}

// classifierOf extracts "sources" from "widget-1.2.0-sources.jar".
// It returns "" when the file name does not start with "artifact-version-".
func classifierOf(filename, artifact, version string) string {
	dot := strings.LastIndex(filename, ".")
	start := len(artifact) + len(version) + 2
	if dot < 0 || start > dot {
		return ""
	}
	if !strings.EqualFold(filename[:start], artifact+"-"+version+"-") {
		return ""
	}
	return filename[start:dot]
}

func lower(s string) string { return strings.ToLower(s) }

// Group returns the dotted group, e.g. "newtonsoft.json".
func (c Coordinate) Group() string { return c.group }

// Artifact returns the artifact id.
func (c Coordinate) Artifact() string { return c.artifact }

// Version returns the version; empty for metadata coordinates.
func (c Coordinate) Version() string { return c.version }

// Classifier returns the classifier or "" for none.
func (c Coordinate) Classifier() string { return c.classifier }

// Type returns the file extension/kind, e.g. "dll".
func (c Coordinate) Type() string { return c.typ }

// IsMetadata reports whether c is a version-index request.
func (c Coordinate) IsMetadata() bool { return c.metadata }

// IsFeedFile reports whether c names a file the feed serves natively.
func (c Coordinate) IsFeedFile() bool {
	return c.typ == TypePackage || c.typ == TypeSpecification
}

// IsPom reports whether c asks for a consumer descriptor.
func (c Coordinate) IsPom() bool { return c.typ == TypePom }

// IsSpecification reports whether c is answered from the package manifest
// rather than the archive.
func (c Coordinate) IsSpecification() bool {
	return c.IsPom() || c.typ == TypeSpecification
}

// Kind classifies the request.
func (c Coordinate) Kind() Kind {
	switch {
	case c.metadata:
		return KindMetadata
	case c.IsFeedFile():
		return KindFeedFile
	case c.IsPom():
		return KindSpecification
	case c.typ == TypeLibrary:
		return KindLibrary
	case c.typ == TypeTool:
		return KindTool
	default:
		return KindOther
	}
}

// GroupPath returns the group with dots replaced by slashes.
func (c Coordinate) GroupPath() string {
	return strings.ReplaceAll(c.group, ".", "/")
}

// RepositorySubdirectory returns group-path/artifact/version, or
// group-path/artifact for metadata coordinates. The result always uses
// forward slashes.
func (c Coordinate) RepositorySubdirectory() string {
	if c.metadata {
		return path.Join(c.GroupPath(), c.artifact)
	}
	return path.Join(c.GroupPath(), c.artifact, c.version)
}

// ArtifactFilename returns artifact-version[-classifier].type, or
// [MetadataFilename] for metadata coordinates.
func (c Coordinate) ArtifactFilename() string {
	if c.metadata {
		return MetadataFilename
	}
	name := c.artifact + "-" + c.version
	if c.classifier != "" {
		name += "-" + c.classifier
	}
	return name + "." + c.typ
}

// RepositoryPath returns the full consumer layout path of c.
func (c Coordinate) RepositoryPath() string {
	return path.Join(c.RepositorySubdirectory(), c.ArtifactFilename())
}

// ArtifactName is the file name of the binary inside the archive,
// e.g. "widget.dll".
func (c Coordinate) ArtifactName() string {
	return c.artifact + "." + c.typ
}

// SpecificationFile is the manifest file name at the archive root.
func (c Coordinate) SpecificationFile() string {
	return c.group + "." + TypeSpecification
}

// ResourceString returns the key of the backing resource in the feed's
// own addressing scheme:
//
//	metadata:       <group>/index.json
//	specification:  <group>/<version>/<group>.nuspec
//	anything else:  <group>/<version>/<group>.<version>.nupkg
func (c Coordinate) ResourceString() string {
	switch {
	case c.metadata:
		return c.group + "/" + indexFilename
	case c.IsSpecification():
		return c.group + "/" + c.version + "/" + c.group + "." + TypeSpecification
	default:
		return c.group + "/" + c.version + "/" + c.group + "." + c.version + "." + TypePackage
	}
}

// CorrespondingDownloadArtifact returns the coordinate of the feed file that
// physically backs c: same group and version, artifact set to the group, no
// classifier, and type nuspec for specification requests or nupkg otherwise.
// One archive serves many derived requests (several binaries, a descriptor).
func (c Coordinate) CorrespondingDownloadArtifact() Coordinate {
	typ := TypePackage
	if c.IsSpecification() {
		typ = TypeSpecification
	}
	return New(c.group, c.group, c.version, "", typ)
}

// String returns the coordinate in group:artifact:type[:classifier]:version
// notation.
func (c Coordinate) String() string {
	if c.metadata {
		return c.group + ":" + c.artifact + ":metadata"
	}
	s := c.group + ":" + c.artifact + ":" + c.typ
	if c.classifier != "" {
		s += ":" + c.classifier
	}
	return s + ":" + c.version
}
