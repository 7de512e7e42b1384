package descriptor

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

func TestIndexLatestAndRelease(t *testing.T) {
	tests := []struct {
		name        string
		versions    []string
		wantLatest  string
		wantRelease string
	}{
		{"release is newest", []string{"1.0.0", "1.1.0-beta", "1.1.0"}, "1.1.0", "1.1.0"},
		{"prerelease newest", []string{"1.0.0", "1.1.0", "1.2.0-rc.1"}, "1.2.0-rc.1", "1.1.0"},
		{"only prereleases", []string{"0.1.0-alpha", "0.2.0-beta"}, "0.2.0-beta", ""},
		{"two components", []string{"4.5", "4.6"}, "4.6", "4.6"},
		{"empty", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Index{Versions: tt.versions}
			if got := idx.Latest(); got != tt.wantLatest {
				t.Errorf("Latest() = %q, want %q", got, tt.wantLatest)
			}
			if got := idx.Release(); got != tt.wantRelease {
				t.Errorf("Release() = %q, want %q", got, tt.wantRelease)
			}
		})
	}
}

func TestReadIndex(t *testing.T) {
	idx, err := ReadIndex(strings.NewReader(`{"versions":["1.0.0","1.1.0-beta","1.1.0"]}`))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(idx.Versions) != 3 {
		t.Errorf("Versions = %v", idx.Versions)
	}

	if _, err := ReadIndex(strings.NewReader(`<html>`)); !errors.IsTransfer(err) {
		t.Errorf("ReadIndex(garbage) = %v, want MALFORMED_RESOURCE", err)
	}
}

func TestWriteMetadata(t *testing.T) {
	m := NewMetadata("acme", "widget", Index{Versions: []string{"1.0.0", "1.1.0-beta", "1.1.0"}})

	var buf bytes.Buffer
	if err := WriteMetadata(&buf, m); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<metadata modelVersion="1.1.0">
  <groupId>acme</groupId>
  <artifactId>widget</artifactId>
  <versioning>
    <latest>1.1.0</latest>
    <release>1.1.0</release>
    <versions>
      <version>1.0.0</version>
      <version>1.1.0-beta</version>
      <version>1.1.0</version>
    </versions>
  </versioning>
</metadata>
`
	if buf.String() != want {
		t.Errorf("WriteMetadata =\n%s\nwant\n%s", buf.String(), want)
	}

	var back Metadata
	if err := xml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
}
