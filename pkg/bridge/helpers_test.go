package bridge

import (
	"testing"

	"github.com/matzehuels/nugetbridge/pkg/coordinate"
)

func mustParse(t *testing.T, resource string) coordinate.Coordinate {
	t.Helper()
	c, err := coordinate.Parse(resource)
	if err != nil {
		t.Fatalf("Parse(%s): %v", resource, err)
	}
	return c
}
