package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/nugetbridge/pkg/coordinate"
	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// fakeTransport writes body to the destination and counts calls.
type fakeTransport struct {
	body  string
	calls atomic.Int32
	delay time.Duration
	err   error
	newer bool

	// onGet runs before the file is written.
	onGet func(key, destination string)
}

func (f *fakeTransport) Get(ctx context.Context, key, destination string) error {
	f.calls.Add(1)
	if f.onGet != nil {
		f.onGet(key, destination)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destination, []byte(f.body), 0o644)
}

func (f *fakeTransport) GetIfNewer(ctx context.Context, key, destination string, since time.Time) (bool, error) {
	if !f.newer {
		f.calls.Add(1)
		return false, f.err
	}
	return true, f.Get(ctx, key, destination)
}

func archiveCoordinate(group, version string) coordinate.Coordinate {
	return coordinate.New(group, "widget", version, "", "dll").CorrespondingDownloadArtifact()
}

func TestLockForReturnsSameMutex(t *testing.T) {
	c := NewCoordinator(nil)
	if c.LockFor("a") != c.LockFor("a") {
		t.Error("LockFor should return the same lock for one key")
	}
	if c.LockFor("a") == c.LockFor("b") {
		t.Error("LockFor should return distinct locks for distinct keys")
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "acme", "1.2.0", "acme-1.2.0.nupkg")
	tr := &fakeTransport{body: "archive"}
	c := NewCoordinator(nil)

	if err := c.Fetch(ctx, tr, archiveCoordinate("acme", "1.2.0"), dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "archive" {
		t.Errorf("destination = %q, want %q", data, "archive")
	}

	// Existing destination is a no-op.
	if err := c.Fetch(ctx, tr, archiveCoordinate("acme", "1.2.0"), dest); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if n := tr.calls.Load(); n != 1 {
		t.Errorf("transport calls = %d, want 1", n)
	}
	assertNoTempFiles(t, filepath.Dir(dest))
}

func TestFetch_SameKeyTransfersOnce(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "acme-1.2.0.nupkg")
	tr := &fakeTransport{body: "archive", delay: 50 * time.Millisecond}
	c := NewCoordinator(nil)
	coord := archiveCoordinate("acme", "1.2.0")

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Fetch(ctx, tr, coord, dest)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
	}
	if n := tr.calls.Load(); n != 1 {
		t.Errorf("transport calls = %d, want 1", n)
	}
	if data, _ := os.ReadFile(dest); string(data) != "archive" {
		t.Errorf("destination = %q", data)
	}
}

func TestFetch_DifferentKeysRunConcurrently(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewCoordinator(nil)

	// Each transfer waits until both have started; serialized transfers
	// would never get past the barrier.
	var started sync.WaitGroup
	started.Add(2)
	barrier := func(string, string) {
		started.Done()
		started.Wait()
	}

	done := make(chan error, 2)
	for i, group := range []string{"acme", "globex"} {
		tr := &fakeTransport{body: group, onGet: barrier}
		dest := filepath.Join(dir, fmt.Sprintf("%d.nupkg", i))
		go func() { done <- c.Fetch(ctx, tr, archiveCoordinate(group, "1.0.0"), dest) }()
	}

	for range 2 {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("downloads for different keys did not overlap")
		}
	}
}

func TestFetch_TransportError(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "acme-1.2.0.nupkg")
	tr := &fakeTransport{err: fmt.Errorf("connection reset")}

	err := NewCoordinator(nil).Fetch(context.Background(), tr, archiveCoordinate("acme", "1.2.0"), dest)
	if !errors.IsTransfer(err) {
		t.Fatalf("Fetch error = %v, want TRANSFER_FAILED", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination must not exist after a failed transfer")
	}
	assertNoTempFiles(t, dir)
}

func TestFetch_CodedTransportErrorPassesThrough(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "acme-1.2.0.nupkg")
	tr := &fakeTransport{err: errors.New(errors.ErrCodeResourceNotFound, "no such package")}

	err := NewCoordinator(nil).Fetch(context.Background(), tr, archiveCoordinate("acme", "1.2.0"), dest)
	if got := errors.GetCode(err); got != errors.ErrCodeResourceNotFound {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeResourceNotFound)
	}
}

func TestFetch_RenameFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "acme-1.2.0.nupkg")

	// A directory appearing at the destination mid-transfer makes the
	// rename fail.
	tr := &fakeTransport{
		body: "archive",
		onGet: func(string, string) {
			if err := os.MkdirAll(filepath.Join(dest, "occupied"), 0o755); err != nil {
				t.Errorf("mkdir: %v", err)
			}
		},
	}

	err := NewCoordinator(nil).Fetch(context.Background(), tr, archiveCoordinate("acme", "1.2.0"), dest)
	if !errors.IsTransfer(err) {
		t.Fatalf("Fetch error = %v, want TRANSFER_FAILED", err)
	}
	assertNoTempFiles(t, dir)
}

func TestFetchIfNewer(t *testing.T) {
	ctx := context.Background()
	coord := coordinate.NewMetadata("acme", "widget")

	tests := []struct {
		name      string
		existing  string
		age       time.Duration // destination mtime relative to since
		newer     bool
		want      bool
		wantBody  string
		wantCalls int32
	}{
		{"destination newer than since", "old", time.Hour, true, false, "old", 0},
		{"destination older than since", "old", -time.Hour, true, true, "new", 1},
		{"missing destination", "", 0, true, true, "new", 1},
		{"feed has nothing newer", "old", -time.Hour, false, false, "old", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dest := filepath.Join(dir, "maven-metadata.xml.json")
			since := time.Now().Add(-24 * time.Hour)

			if tt.existing != "" {
				if err := os.WriteFile(dest, []byte(tt.existing), 0o644); err != nil {
					t.Fatal(err)
				}
				mtime := since.Add(tt.age)
				if err := os.Chtimes(dest, mtime, mtime); err != nil {
					t.Fatal(err)
				}
			}

			tr := &fakeTransport{body: "new", newer: tt.newer}
			got, err := NewCoordinator(nil).FetchIfNewer(ctx, tr, coord, dest, since)
			if err != nil {
				t.Fatalf("FetchIfNewer: %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchIfNewer = %v, want %v", got, tt.want)
			}
			if n := tr.calls.Load(); n != tt.wantCalls {
				t.Errorf("transport calls = %d, want %d", n, tt.wantCalls)
			}
			if data, _ := os.ReadFile(dest); string(data) != tt.wantBody {
				t.Errorf("destination = %q, want %q", data, tt.wantBody)
			}
			assertNoTempFiles(t, dir)
		})
	}
}

func TestRefreshReplacesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "maven-metadata.xml.json")
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr := &fakeTransport{body: "fresh"}
	if err := NewCoordinator(nil).Refresh(context.Background(), tr, coordinate.NewMetadata("acme", "widget"), dest); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "fresh" {
		t.Errorf("destination = %q, want %q", data, "fresh")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) > 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}
