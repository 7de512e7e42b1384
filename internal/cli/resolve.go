package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nugetbridge/pkg/bridge"
	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// resolveResult is the outcome for one resource.
type resolveResult struct {
	Resource    string
	Destination string
	Err         error
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "resolve <resource-path>...",
		Short: "Produce many repository files concurrently",
		Long: `Produce several repository files at once. Requests that share a package
download its archive only once.

  nugetbridge resolve acme/widget/1.2.0/widget-1.2.0.dll acme/gadget/1.2.0/gadget-1.2.0.dll`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			rt, err := c.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			prog := newProgress(logger)
			spin := startSpinner(ctx, cmd.ErrOrStderr(), "Resolving files")
			spin.progress(0, len(args))

			results := resolveAll(ctx, rt.engine, rt.cfg.Repository, args, jobs, spin.progress)
			spin.stop()

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					printError("%s: %s", r.Resource, errors.UserMessage(r.Err))
					continue
				}
				printSuccess("%s", r.Resource)
				printFile(r.Destination)
			}
			printSummary(len(results)-failed, failed, prog.elapsed())
			prog.done(fmt.Sprintf("Resolved %d files", len(results)-failed))

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 8, "maximum concurrent requests")

	return cmd
}

// resolveAll runs engine.Get for every resource with at most jobs requests
// in flight. Results keep the order of resources. Individual failures do
// not cancel the others. onDone calls are serialized.
func resolveAll(ctx context.Context, engine *bridge.Engine, repository string, resources []string, jobs int, onDone func(done, total int)) []resolveResult {
	results := make([]resolveResult, len(resources))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	var (
		mu   sync.Mutex
		done int
	)
	for i, res := range resources {
		res = strings.TrimPrefix(res, "/")
		dest := filepath.Join(repository, filepath.FromSlash(res))
		g.Go(func() error {
			err := engine.Get(ctx, res, dest)
			results[i] = resolveResult{Resource: res, Destination: dest, Err: err}

			mu.Lock()
			defer mu.Unlock()
			done++
			if onDone != nil {
				onDone(done, len(resources))
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
