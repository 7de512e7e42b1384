package framework

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		token    string
		wantOK   bool
		wantName string
		wantAbbr string
		want     [3]int
	}{
		{"net45", true, ".NETFramework", "net", [3]int{4, 5, 0}},
		{"net472", true, ".NETFramework", "net", [3]int{4, 7, 2}},
		{"net4.7.2", true, ".NETFramework", "net", [3]int{4, 7, 2}},
		{"net4.5", true, ".NETFramework", "net", [3]int{4, 5, 0}},
		{"netstandard2.0", true, ".NETStandard", "netstandard", [3]int{2, 0, 0}},
		{"netstandard2.0.3", true, ".NETStandard", "netstandard", [3]int{2, 0, 3}},
		{"netcoreapp3.1", true, "netcoreapp", "netcoreapp", [3]int{3, 1, 0}},
		{"net10.0", true, ".NETFramework", "net", [3]int{10, 0, 0}},
		{"sl5.0", true, "Silverlight", "sl", [3]int{5, 0, 0}},
		{"net5.0-windows", true, ".NETFramework", "net", [3]int{5, 0, 0}},
		{"NET45", true, ".NETFramework", "net", [3]int{4, 5, 0}},
		{"45", true, ".NETFramework", "net", [3]int{4, 5, 0}},

		{"net", false, "", "", [3]int{}},
		{"net4", false, "", "", [3]int{}},
		{"portable-net45+win8", false, "", "", [3]int{}},
		{"_rels", false, "", "", [3]int{}},
		{"", false, "", "", [3]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			v, ok := Parse(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if v.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", v.Name, tt.wantName)
			}
			if v.Abbreviation != tt.wantAbbr {
				t.Errorf("Abbreviation = %q, want %q", v.Abbreviation, tt.wantAbbr)
			}
			if got := [3]int{v.Major, v.Minor, v.Patch}; got != tt.want {
				t.Errorf("numbers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFullName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{".NETFramework4.5", "net4.5"},
		{".NETStandard2.0", "netstandard2.0"},
		{".netstandard1.3", "netstandard1.3"},
		{"net461", "net4.6.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseFullName(tt.name)
			if !ok {
				t.Fatalf("ParseFullName(%q) failed", tt.name)
			}
			if got := v.VersionedShortName(); got != tt.want {
				t.Errorf("VersionedShortName() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, ok := ParseFullName(""); ok {
		t.Error("ParseFullName(\"\") should fail")
	}
}

func TestIsDownwardsCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"net45", "net45", true},
		{"net46", "net45", true},
		{"net45", "net46", false},
		{"net5.0", "net4.8", true},
		{"net4.7.2", "net4.7.1", true},
		{"net4.7.1", "net4.7.2", false},
		{"net4.8", "net4.7.2", true},
		{"netstandard2.0", "net45", false},
		{"net45", "netstandard2.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			if got := a.IsDownwardsCompatible(b); got != tt.want {
				t.Errorf("%s.IsDownwardsCompatible(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsDownwardsCompatible_Reflexive(t *testing.T) {
	for _, token := range []string{"net20", "net4.7.2", "netstandard2.0", "netcoreapp3.1", "sl5.0"} {
		v := MustParse(token)
		if !v.IsDownwardsCompatible(v) {
			t.Errorf("%s is not compatible with itself", token)
		}
	}
}

func TestIsDownwardsCompatible_AcrossFamilies(t *testing.T) {
	a := New("Foo", "foo", 1, 0, 0)
	b := New("Bar", "bar", 1, 0, 0)
	if a.IsDownwardsCompatible(b) || b.IsDownwardsCompatible(a) {
		t.Error("versions of different families must not be compatible either way")
	}
}

func TestVersion_Tokens(t *testing.T) {
	v := MustParse("net472")
	if got := v.VersionedToken(); got != "net4.7" {
		t.Errorf("VersionedToken() = %q", got)
	}
	if got := v.VersionedShortName(); got != "net4.7.2" {
		t.Errorf("VersionedShortName() = %q", got)
	}
	if got := v.VersionedFullName(); got != ".NETFramework4.7.2" {
		t.Errorf("VersionedFullName() = %q", got)
	}

	d := Default()
	if got := d.VersionedFullName(); got != ".NETStandard2.0" {
		t.Errorf("Default().VersionedFullName() = %q", got)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid token")
		}
	}()
	MustParse("lib")
}
