package archive

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

// Locations inside an extracted archive.
const (
	LibDir   = "lib"
	ToolsDir = "tools"
	RefDir   = "ref"
	BuildDir = "build"
)

// Match is a file found inside an extracted archive.
type Match struct {
	Path      string // Absolute path on disk
	Rel       string // Slash-separated path relative to the archive root
	Framework string // Framework directory name, empty for unversioned locations
}

// FindLibrary locates name (e.g. "widget.dll") for the desired framework.
// The first location that yields a file wins:
//
//  1. lib/<token>/name, where token is desired.VersionedToken()
//  2. lib/<fw>/name, best framework directory by [framework.SelectBestName]
//  3. tools/name
//  4. ref/<fw>/name, best framework directory
//  5. build/<token>/ref/name
//  6. build/<fw>/name, best framework directory
//
// A later location is never consulted once an earlier one matched, even if
// it holds a closer framework version. Returns an ARTIFACT_NOT_FOUND error
// when nothing matches.
func FindLibrary(root, name string, desired framework.Version) (Match, error) {
	token := desired.VersionedToken()

	if m, ok := exact(root, path.Join(LibDir, token, name), token); ok {
		return m, nil
	}
	if m, ok := scan(root, LibDir, name, desired); ok {
		return m, nil
	}
	if m, ok := exact(root, path.Join(ToolsDir, name), ""); ok {
		return m, nil
	}
	if m, ok := scan(root, RefDir, name, desired); ok {
		return m, nil
	}
	if m, ok := exact(root, path.Join(BuildDir, token, RefDir, name), token); ok {
		return m, nil
	}
	if m, ok := scan(root, BuildDir, name, desired); ok {
		return m, nil
	}
	return Match{}, errors.New(errors.ErrCodeArtifactNotFound,
		"no %s compatible with %s in archive", name, desired.VersionedShortName())
}

// FindTool locates name in the unversioned tools directory.
func FindTool(root, name string) (Match, error) {
	if m, ok := exact(root, path.Join(ToolsDir, name), ""); ok {
		return m, nil
	}
	return Match{}, errors.New(errors.ErrCodeArtifactNotFound, "no %s/%s in archive", ToolsDir, name)
}

// Candidate is a framework directory that contains the requested file.
type Candidate struct {
	Location  string // LibDir, RefDir or BuildDir
	Framework string // Directory name, e.g. "net46"
}

// Candidates lists every framework directory under lib, ref and build that
// contains name, in search order and sorted by name within a location.
func Candidates(root, name string) []Candidate {
	var out []Candidate
	for _, loc := range []string{LibDir, RefDir, BuildDir} {
		for _, dir := range frameworkDirs(root, loc, name) {
			out = append(out, Candidate{Location: loc, Framework: dir})
		}
	}
	return out
}

func exact(root, rel, fw string) (Match, bool) {
	p := filepath.Join(root, filepath.FromSlash(rel))
	if !isFile(p) {
		return Match{}, false
	}
	return Match{Path: p, Rel: rel, Framework: fw}, true
}

func scan(root, location, name string, desired framework.Version) (Match, bool) {
	dirs := frameworkDirs(root, location, name)
	best, ok := framework.SelectBestName(desired, dirs)
	if !ok {
		return Match{}, false
	}
	return exact(root, path.Join(location, best, name), best)
}

// frameworkDirs returns the subdirectories of root/location that contain
// name. Whether a directory parses as a framework is left to the caller.
func frameworkDirs(root, location, name string) []string {
	entries, err := os.ReadDir(filepath.Join(root, location))
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if isFile(filepath.Join(root, location, e.Name(), name)) {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
