package descriptor

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"regexp"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// metadataModelVersion is the maven-metadata.xml schema version written.
const metadataModelVersion = "1.1.0"

var releasePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// Index is the version index a flat-container feed serves as index.json.
// Versions are ordered oldest to newest.
type Index struct {
	Versions []string `json:"versions"`
}

// ReadIndex decodes an index.json payload.
func ReadIndex(r io.Reader) (Index, error) {
	var idx Index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return Index{}, errors.Wrap(errors.ErrCodeTransfer, err, "decode version index")
	}
	return idx, nil
}

// Latest returns the newest version, or "" for an empty index.
func (idx Index) Latest() string {
	if len(idx.Versions) == 0 {
		return ""
	}
	return idx.Versions[len(idx.Versions)-1]
}

// Release returns the newest strictly numeric version ("1.2.0" but not
// "1.3.0-beta"), scanning from newest to oldest. Returns "" if none.
func (idx Index) Release() string {
	for i := len(idx.Versions) - 1; i >= 0; i-- {
		if releasePattern.MatchString(idx.Versions[i]) {
			return idx.Versions[i]
		}
	}
	return ""
}

// Metadata is a maven-metadata.xml document.
type Metadata struct {
	XMLName      xml.Name   `xml:"metadata"`
	ModelVersion string     `xml:"modelVersion,attr"`
	GroupID      string     `xml:"groupId"`
	ArtifactID   string     `xml:"artifactId"`
	Versioning   Versioning `xml:"versioning"`
}

// Versioning is the versioning block of [Metadata].
type Versioning struct {
	Latest   string   `xml:"latest,omitempty"`
	Release  string   `xml:"release,omitempty"`
	Versions []string `xml:"versions>version"`
}

// NewMetadata builds the metadata document for groupID:artifactID from idx.
func NewMetadata(groupID, artifactID string, idx Index) Metadata {
	return Metadata{
		ModelVersion: metadataModelVersion,
		GroupID:      groupID,
		ArtifactID:   artifactID,
		Versioning: Versioning{
			Latest:   idx.Latest(),
			Release:  idx.Release(),
			Versions: idx.Versions,
		},
	}
}

// WriteMetadata writes m as an indented XML document.
func WriteMetadata(w io.Writer, m Metadata) error {
	return writeXML(w, m)
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
