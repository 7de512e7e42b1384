package bridge

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetbridge/pkg/archive"
	"github.com/matzehuels/nugetbridge/pkg/coordinate"
	"github.com/matzehuels/nugetbridge/pkg/descriptor"
	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/fetch"
	"github.com/matzehuels/nugetbridge/pkg/framework"
	"github.com/matzehuels/nugetbridge/pkg/history"
	"github.com/matzehuels/nugetbridge/pkg/observability"
)

// Checksum sideband suffixes.
const (
	suffixMD5  = ".md5"
	suffixSHA1 = ".sha1"

	metadataDownloadSuffix = ".json"
)

// Transport is the feed access the engine needs. *feed.Client implements it.
type Transport interface {
	fetch.Transport

	// ResourceExists reports whether key exists on the feed.
	ResourceExists(ctx context.Context, key string) (bool, error)

	// ContentMD5 returns the checksum the feed advertises for key.
	ContentMD5(ctx context.Context, key string) (string, error)
}

// FrameworkProvider supplies the target framework binaries are selected
// for.
type FrameworkProvider interface {
	FrameworkVersion() framework.Version
}

// StaticFramework is a FrameworkProvider that always returns itself.
type StaticFramework framework.Version

// FrameworkVersion implements FrameworkProvider.
func (s StaticFramework) FrameworkVersion() framework.Version { return framework.Version(s) }

// Options configures an [Engine].
type Options struct {
	// Transport is required.
	Transport Transport

	// Coordinator deduplicates downloads. Engines sharing a repository
	// should share a coordinator. Defaults to a new one.
	Coordinator *fetch.Coordinator

	// Framework defaults to framework.Default().
	Framework FrameworkProvider

	// Repository is the local repository root. It is only consulted when a
	// destination does not lie inside a repository layout.
	Repository string

	// History records extractions. Defaults to history.NullStore.
	History history.Store

	Logger *log.Logger
}

// Engine resolves repository requests. It is safe for concurrent use.
type Engine struct {
	transport   Transport
	coordinator *fetch.Coordinator
	unpacker    *archive.Unpacker
	framework   FrameworkProvider
	repository  string
	history     history.Store
	logger      *log.Logger
}

// New creates an engine.
func New(opts Options) (*Engine, error) {
	if opts.Transport == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bridge: transport is required")
	}
	e := &Engine{
		transport:   opts.Transport,
		coordinator: opts.Coordinator,
		framework:   opts.Framework,
		repository:  opts.Repository,
		history:     opts.History,
		logger:      opts.Logger,
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.coordinator == nil {
		e.coordinator = fetch.NewCoordinator(e.logger)
	}
	if e.framework == nil {
		e.framework = StaticFramework(framework.Default())
	}
	if e.history == nil {
		e.history = history.NullStore{}
	}
	e.unpacker = archive.NewUnpacker(e.coordinator, e.logger)
	return e, nil
}

// Framework returns the target framework currently in use.
func (e *Engine) Framework() framework.Version {
	return e.framework.FrameworkVersion()
}

// Get produces resource at destination.
//
// Errors carry the codes of pkg/errors: MALFORMED_RESOURCE or INVALID_PATH
// for unusable paths, RESOURCE_NOT_FOUND when the feed lacks the package,
// TRANSFER_FAILED for download failures, ARTIFACT_NOT_FOUND when the
// archive has no binary for the target framework and CHECKSUM_UNSUPPORTED
// for checksums the feed cannot provide.
func (e *Engine) Get(ctx context.Context, resource, destination string) (err error) {
	kind := "checksum"
	defer e.observe(ctx, resource, &kind, time.Now(), &err)

	if err := errors.ValidateResourcePath(resource); err != nil {
		return err
	}
	e.logger.Debug("get", "resource", resource, "destination", destination)

	switch {
	case strings.HasSuffix(resource, suffixSHA1):
		return errors.New(errors.ErrCodeChecksumUnsupported, "sha1 checksums are not supported")
	case strings.HasSuffix(resource, suffixMD5):
		return e.getMD5(ctx, strings.TrimSuffix(resource, suffixMD5), destination)
	}

	c, err := coordinate.Parse(resource)
	if err != nil {
		return err
	}
	kind = c.Kind().String()

	switch c.Kind() {
	case coordinate.KindFeedFile:
		return e.coordinator.Fetch(ctx, e.transport, c, destination)

	case coordinate.KindMetadata:
		index := destination + metadataDownloadSuffix
		if err := e.coordinator.Refresh(ctx, e.transport, c, index); err != nil {
			return err
		}
		return e.transformMetadata(c, index, destination)
	}

	download := c.CorrespondingDownloadArtifact()
	archivePath := e.archivePath(c, download, destination)
	e.logger.Debug("backing archive", "coordinate", c, "archive", archivePath)

	if err := e.coordinator.Fetch(ctx, e.transport, download, archivePath); err != nil {
		return err
	}
	return e.transform(ctx, resource, c, download, archivePath, destination)
}

// GetIfNewer is like Get but only transfers when the feed copy changed
// after since. It reports whether destination was written. Checksum
// requests are always rejected.
func (e *Engine) GetIfNewer(ctx context.Context, resource, destination string, since time.Time) (written bool, err error) {
	kind := "checksum"
	defer e.observe(ctx, resource, &kind, time.Now(), &err)

	if err := errors.ValidateResourcePath(resource); err != nil {
		return false, err
	}
	if strings.HasSuffix(resource, suffixMD5) || strings.HasSuffix(resource, suffixSHA1) {
		return false, errors.New(errors.ErrCodeChecksumUnsupported, "checksums are not supported for conditional requests")
	}

	c, err := coordinate.Parse(resource)
	if err != nil {
		return false, err
	}
	kind = c.Kind().String()

	switch c.Kind() {
	case coordinate.KindFeedFile:
		return e.coordinator.FetchIfNewer(ctx, e.transport, c, destination, since)

	case coordinate.KindMetadata:
		index := destination + metadataDownloadSuffix
		ok, err := e.coordinator.FetchIfNewer(ctx, e.transport, c, index, since)
		if err != nil || !ok {
			return false, err
		}
		return true, e.transformMetadata(c, index, destination)
	}

	download := c.CorrespondingDownloadArtifact()
	archivePath := e.archivePath(c, download, destination)

	ok, err := e.coordinator.FetchIfNewer(ctx, e.transport, download, archivePath, since)
	if err != nil || !ok {
		return false, err
	}
	return true, e.transform(ctx, resource, c, download, archivePath, destination)
}

// ResourceExists asks the feed whether the file backing resource exists.
func (e *Engine) ResourceExists(ctx context.Context, resource string) (bool, error) {
	if err := errors.ValidateResourcePath(resource); err != nil {
		return false, err
	}
	c, err := coordinate.Parse(strings.TrimSuffix(strings.TrimSuffix(resource, suffixMD5), suffixSHA1))
	if err != nil {
		return false, err
	}
	return e.transport.ResourceExists(ctx, c.ResourceString())
}

// Put always fails: the feed is read-only.
func (e *Engine) Put(context.Context, string, string) error {
	return errors.New(errors.ErrCodeUnsupported, "feed is read-only")
}

func (e *Engine) getMD5(ctx context.Context, resource, destination string) error {
	c, err := coordinate.Parse(resource)
	if err != nil {
		return err
	}
	if !c.IsFeedFile() {
		return errors.New(errors.ErrCodeChecksumUnsupported,
			"checksums of files extracted from packages are not supported: %s", resource)
	}
	sum, err := e.transport.ContentMD5(ctx, c.ResourceString())
	if err != nil {
		return err
	}
	return writeFile(destination, func(w io.Writer) error {
		_, err := io.WriteString(w, sum)
		return err
	})
}

// transform derives destination from the downloaded feed file.
func (e *Engine) transform(ctx context.Context, resource string, c, download coordinate.Coordinate, archivePath, destination string) error {
	switch c.Kind() {
	case coordinate.KindSpecification:
		return e.transformPom(c, archivePath, destination)
	case coordinate.KindLibrary, coordinate.KindTool:
		return e.extract(ctx, resource, c, download, archivePath, destination)
	default:
		e.logger.Debug("nothing to transform", "coordinate", c)
		return nil
	}
}

func (e *Engine) extract(ctx context.Context, resource string, c, download coordinate.Coordinate, archivePath, destination string) error {
	desired := e.Framework()

	// Held across selection and placement: re-extraction of the archive
	// waits until destination is published.
	var m archive.Match
	err := e.unpacker.With(archivePath, func(root string) error {
		var err error
		if c.Kind() == coordinate.KindTool {
			m, err = archive.FindTool(root, c.ArtifactName())
		} else {
			m, err = archive.FindLibrary(root, c.ArtifactName(), desired)
		}
		if err != nil {
			return err
		}
		e.logger.Debug("selected", "coordinate", c, "entry", m.Rel, "framework", desired, "selected", m.Framework)
		return archive.Provide(m.Path, destination)
	})
	if err != nil {
		return err
	}

	rec := history.Record{
		Coordinate: c.String(),
		Resource:   resource,
		Archive:    download.ResourceString(),
		Entry:      m.Rel,
		Framework:  desired.VersionedShortName(),
		Selected:   m.Framework,
		Time:       time.Now().UTC(),
	}
	if err := e.history.Add(ctx, rec); err != nil {
		e.logger.Warn("could not record resolution", "coordinate", c, "error", err)
	}
	return nil
}

func (e *Engine) transformPom(c coordinate.Coordinate, nuspecPath, destination string) error {
	f, err := os.Open(nuspecPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransfer, err, "open %s", nuspecPath)
	}
	defer f.Close()

	nuspec, err := descriptor.ReadNuspec(f)
	if err != nil {
		return err
	}
	pom := descriptor.NewPom(nuspec, c.Group(), c.Artifact(), e.Framework())
	return writeFile(destination, func(w io.Writer) error {
		return descriptor.WritePom(w, pom)
	})
}

func (e *Engine) transformMetadata(c coordinate.Coordinate, indexPath, destination string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransfer, err, "open %s", indexPath)
	}
	defer f.Close()

	idx, err := descriptor.ReadIndex(f)
	if err != nil {
		return err
	}
	md := descriptor.NewMetadata(c.Group(), c.Artifact(), idx)
	return writeFile(destination, func(w io.Writer) error {
		return descriptor.WriteMetadata(w, md)
	})
}

// archivePath places the backing archive inside the repository that holds
// destination. The repository root is found by locating c's own
// subdirectory in destination.
func (e *Engine) archivePath(c, download coordinate.Coordinate, destination string) string {
	dest := filepath.Clean(destination)
	sub := filepath.FromSlash(c.RepositorySubdirectory())

	if i := strings.LastIndex(strings.ToLower(dest), sub); i >= 0 && (i == 0 || dest[i-1] == filepath.Separator) {
		return filepath.Join(dest[:i], filepath.FromSlash(download.RepositoryPath()))
	}
	if e.repository != "" {
		return filepath.Join(e.repository, filepath.FromSlash(download.RepositoryPath()))
	}
	return filepath.Join(filepath.Dir(dest), download.ArtifactFilename())
}

func (e *Engine) observe(ctx context.Context, resource string, kind *string, start time.Time, err *error) {
	d := time.Since(start)
	observability.Resolve().OnResolveComplete(ctx, resource, *kind, d, *err)
	if *err != nil {
		e.logger.Debug("request failed", "resource", resource, "kind", *kind, "duration", d, "error", *err)
	}
}

// writeFile writes destination through a temporary sibling and a rename.
func writeFile(destination string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create directory for %s", destination)
	}
	f, err := os.CreateTemp(filepath.Dir(destination), filepath.Base(destination)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", destination)
	}
	defer os.Remove(f.Name())

	if err := write(f); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", destination)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", destination)
	}
	if err := os.Rename(f.Name(), destination); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "publish %s", destination)
	}
	return nil
}
