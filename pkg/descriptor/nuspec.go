package descriptor

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

// Nuspec is the subset of a package manifest needed to build a POM.
// Element names match regardless of the manifest's schema namespace.
type Nuspec struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata NuspecMetadata `xml:"metadata"`
}

// NuspecMetadata is the metadata element of a manifest.
type NuspecMetadata struct {
	ID           string             `xml:"id"`
	Version      string             `xml:"version"`
	Title        string             `xml:"title"`
	Authors      string             `xml:"authors"`
	Description  string             `xml:"description"`
	ProjectURL   string             `xml:"projectUrl"`
	LicenseURL   string             `xml:"licenseUrl"`
	Dependencies NuspecDependencies `xml:"dependencies"`
}

// NuspecDependencies holds both the legacy flat dependency list and the
// per-framework groups.
type NuspecDependencies struct {
	Dependencies []NuspecDependency `xml:"dependency"`
	Groups       []NuspecGroup      `xml:"group"`
}

// NuspecGroup is the dependency set for one target framework. An empty
// TargetFramework applies to every framework.
type NuspecGroup struct {
	TargetFramework string             `xml:"targetFramework,attr"`
	Dependencies    []NuspecDependency `xml:"dependency"`
}

// NuspecDependency is a single package reference with a version range.
type NuspecDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

// ReadNuspec decodes a package manifest.
func ReadNuspec(r io.Reader) (*Nuspec, error) {
	var n Nuspec
	if err := xml.NewDecoder(r).Decode(&n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransfer, err, "decode nuspec")
	}
	if n.Metadata.ID == "" {
		return nil, errors.New(errors.ErrCodeTransfer, "nuspec has no package id")
	}
	return &n, nil
}

// DependenciesFor returns the dependencies that apply to desired: the flat
// list, every group without a target framework, and the framework group
// picked by [framework.SelectBest]. Groups whose framework does not parse
// are ignored.
func (n *Nuspec) DependenciesFor(desired framework.Version) []NuspecDependency {
	deps := append([]NuspecDependency(nil), n.Metadata.Dependencies.Dependencies...)

	var versions []framework.Version
	var groups []NuspecGroup
	for _, g := range n.Metadata.Dependencies.Groups {
		if strings.TrimSpace(g.TargetFramework) == "" {
			deps = append(deps, g.Dependencies...)
			continue
		}
		v, ok := framework.ParseFullName(g.TargetFramework)
		if !ok {
			continue
		}
		versions = append(versions, v)
		groups = append(groups, g)
	}

	best, ok := framework.SelectBest(desired, versions)
	if !ok {
		return deps
	}
	for i, v := range versions {
		if v == best {
			return append(deps, groups[i].Dependencies...)
		}
	}
	return deps
}
