package descriptor

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/nugetbridge/pkg/coordinate"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

const (
	pomNamespace      = "http://maven.apache.org/POM/4.0.0"
	pomModelVersion   = "4.0.0"
	dependencyPackage = coordinate.TypeLibrary
)

// Pom is the subset of a Maven POM written for a package.
type Pom struct {
	XMLName      xml.Name        `xml:"project"`
	Namespace    string          `xml:"xmlns,attr"`
	ModelVersion string          `xml:"modelVersion"`
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Packaging    string          `xml:"packaging"`
	Name         string          `xml:"name,omitempty"`
	Description  string          `xml:"description,omitempty"`
	URL          string          `xml:"url,omitempty"`
	Licenses     []PomLicense    `xml:"licenses>license,omitempty"`
	Dependencies []PomDependency `xml:"dependencies>dependency,omitempty"`
}

// PomLicense is a license entry.
type PomLicense struct {
	URL string `xml:"url"`
}

// PomDependency is a dependency entry.
type PomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version,omitempty"`
	Type       string `xml:"type"`
}

// NewPom builds the POM for groupID:artifactID from a manifest, keeping the
// dependencies that apply to desired. Dependency coordinates use the
// package id for both group and artifact, matching how packages are
// addressed in the repository layout.
func NewPom(n *Nuspec, groupID, artifactID string, desired framework.Version) Pom {
	md := n.Metadata
	pom := Pom{
		Namespace:    pomNamespace,
		ModelVersion: pomModelVersion,
		GroupID:      strings.ToLower(groupID),
		ArtifactID:   strings.ToLower(artifactID),
		Version:      md.Version,
		Packaging:    dependencyPackage,
		Name:         firstNonEmpty(md.Title, md.ID),
		Description:  strings.TrimSpace(md.Description),
		URL:          md.ProjectURL,
	}
	if md.LicenseURL != "" {
		pom.Licenses = []PomLicense{{URL: md.LicenseURL}}
	}
	for _, d := range n.DependenciesFor(desired) {
		id := strings.ToLower(d.ID)
		pom.Dependencies = append(pom.Dependencies, PomDependency{
			GroupID:    id,
			ArtifactID: id,
			Version:    VersionRange(d.Version),
			Type:       dependencyPackage,
		})
	}
	return pom
}

// WritePom writes p as an indented XML document.
func WritePom(w io.Writer, p Pom) error {
	return writeXML(w, p)
}

// VersionRange converts a package version range to Maven notation.
// Interval syntax is shared, so "[1.0, 2.0)" only loses its whitespace and
// a bare "1.0" stays a bare version.
func VersionRange(r string) string {
	return strings.Join(strings.Fields(r), "")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
