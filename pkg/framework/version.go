package framework

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// versionPattern matches short framework tokens such as "net45", "net4.7.2",
// "netstandard2.0" or "netcoreapp3.1". Each numeric component is either a
// single digit or a multi-digit number followed by a dot, which lets "472"
// and "4.7.2" both parse. A trailing pre-release identifier is accepted and
// ignored.
var versionPattern = regexp.MustCompile(`^(?P<abbreviation>[a-zA-Z]*)` +
	`(?:(?P<longMajor>[0-9]+)\.|(?P<shortMajor>[0-9]))` +
	`(?:(?P<longMinor>[0-9]+)\.|(?P<shortMinor>[0-9]))` +
	`(?:(?P<longPatch>[0-9]+)\.|(?P<shortPatch>[0-9]))?` +
	`(?:-(?P<identifier>[0-9A-Za-z]+))*$`)

var fullNameByAbbreviation = map[string]string{
	"net":         ".NETFramework",
	"netcore":     ".NETCoreApp",
	"netfm":       ".NETMicroFramework",
	"win":         "Windows",
	"sl":          "Silverlight",
	"netstandard": ".NETStandard",
}

// Version is a target framework version such as .NETFramework 4.5.
//
// Two versions are comparable only within one family, i.e. when Name and
// Abbreviation are equal. Version is a plain value and safe to copy.
type Version struct {
	Name         string // Long family name, e.g. ".NETFramework"
	Abbreviation string // Short family token, e.g. "net"
	Major        int
	Minor        int
	Patch        int
}

// New creates a version. An empty name or abbreviation defaults to the
// .NETFramework family.
func New(name, abbreviation string, major, minor, patch int) Version {
	if abbreviation == "" {
		abbreviation = "net"
	}
	if name == "" {
		name = fullName(abbreviation)
	}
	return Version{
		Name:         name,
		Abbreviation: strings.ToLower(abbreviation),
		Major:        major,
		Minor:        minor,
		Patch:        patch,
	}
}

// Default returns netstandard2.0, the version used when no target framework
// is configured.
func Default() Version {
	return New(".NETStandard", "netstandard", 2, 0, 0)
}

// Parse parses a short framework token.
//
// Tokens that do not look like a framework version return ok=false rather
// than an error: most callers feed it directory names, and a directory that
// is not a framework folder is simply skipped.
func Parse(token string) (v Version, ok bool) {
	m := versionPattern.FindStringSubmatch(token)
	if m == nil {
		return Version{}, false
	}

	group := func(name string) string {
		return m[versionPattern.SubexpIndex(name)]
	}
	number := func(name string) (int, bool) {
		s := group("long" + name)
		if s == "" {
			s = group("short" + name)
		}
		if s == "" {
			return 0, true
		}
		n, err := strconv.Atoi(s)
		return n, err == nil
	}

	major, ok1 := number("Major")
	minor, ok2 := number("Minor")
	patch, ok3 := number("Patch")
	if !ok1 || !ok2 || !ok3 {
		return Version{}, false
	}

	abbreviation := strings.ToLower(group("abbreviation"))
	if abbreviation == "" {
		return New("", "", major, minor, patch), true
	}
	return New(fullName(abbreviation), abbreviation, major, minor, patch), true
}

// ParseFullName parses long-form framework names as found in package
// manifests, e.g. ".NETFramework4.5" or ".NETStandard2.0". Short tokens
// are accepted too.
func ParseFullName(name string) (Version, bool) {
	i := strings.IndexFunc(name, unicode.IsDigit)
	if i <= 0 {
		return Parse(name)
	}
	prefix := name[:i]
	for abbreviation, full := range fullNameByAbbreviation {
		if strings.EqualFold(prefix, full) {
			return Parse(abbreviation + strings.TrimPrefix(name[i:], "v"))
		}
	}
	return Parse(name)
}

// MustParse is like Parse but panics on invalid tokens.
// It is intended for constants and tests.
func MustParse(token string) Version {
	v, ok := Parse(token)
	if !ok {
		panic("framework: invalid version token " + strconv.Quote(token))
	}
	return v
}

func fullName(abbreviation string) string {
	if name, ok := fullNameByAbbreviation[strings.ToLower(abbreviation)]; ok {
		return name
	}
	return abbreviation
}

// SameFamily reports whether v and other can be compared.
func (v Version) SameFamily(other Version) bool {
	return v.Name == other.Name && v.Abbreviation == other.Abbreviation
}

// IsDownwardsCompatible reports whether v is in the same family as other
// and numerically greater than or equal to it in major/minor/patch order.
// It is reflexive and always false across families.
func (v Version) IsDownwardsCompatible(other Version) bool {
	if !v.SameFamily(other) {
		return false
	}
	return compare(v, other) >= 0
}

// compare orders versions by (major, minor, patch), ignoring family.
func compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return cmpInt(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpInt(a.Minor, b.Minor)
	default:
		return cmpInt(a.Patch, b.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// VersionedToken returns the directory token used inside archives,
// abbreviation plus major.minor, e.g. "net4.5".
func (v Version) VersionedToken() string {
	return v.Abbreviation + strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// VersionedShortName returns e.g. "net4.7.2"; the patch is omitted when zero.
func (v Version) VersionedShortName() string {
	return v.Abbreviation + v.numbers()
}

// VersionedFullName returns e.g. ".NETFramework4.7.2"; the patch is omitted
// when zero.
func (v Version) VersionedFullName() string {
	return v.Name + v.numbers()
}

func (v Version) numbers() string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	if v.Patch != 0 {
		s += "." + strconv.Itoa(v.Patch)
	}
	return s
}

// String returns the short name.
func (v Version) String() string { return v.VersionedShortName() }
