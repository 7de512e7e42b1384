//go:build integration

package history

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "nugetbridge_test")
	if err != nil {
		t.Skipf("mongodb unavailable: %v", err)
	}
	defer s.Close()
	defer s.coll.Drop(context.Background())

	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, c := range []string{"acme:widget:dll:1.0.0", "acme:widget:dll:1.1.0"} {
		if err := s.Add(ctx, Record{Coordinate: c, Time: now.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Coordinate != "acme:widget:dll:1.1.0" {
		t.Errorf("Recent(1) = %+v", got)
	}
}
