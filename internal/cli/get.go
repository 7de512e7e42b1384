package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// getCommand creates the get command.
func (c *CLI) getCommand() *cobra.Command {
	var (
		dest  string
		since string
	)

	cmd := &cobra.Command{
		Use:   "get <resource-path>",
		Short: "Produce one repository file",
		Long: `Produce one file of the Maven repository layout from the NuGet feed.

The resource path is relative to the repository root, for example:

  nugetbridge get acme/widget/1.2.0/widget-1.2.0.dll
  nugetbridge get acme/widget/1.2.0/widget-1.2.0.pom
  nugetbridge get acme/widget/maven-metadata.xml

By default the file is written below the configured repository root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resource := strings.TrimPrefix(args[0], "/")

			rt, err := c.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if dest == "" {
				dest = filepath.Join(rt.cfg.Repository, filepath.FromSlash(resource))
			}

			spin := startSpinner(ctx, cmd.ErrOrStderr(), "Resolving "+resource)

			written := true
			if since != "" {
				t, perr := time.Parse(time.RFC3339, since)
				if perr != nil {
					spin.stop()
					return errors.Wrap(errors.ErrCodeInvalidInput, perr, "parse --since")
				}
				written, err = rt.engine.GetIfNewer(ctx, resource, dest, t)
			} else {
				err = rt.engine.Get(ctx, resource, dest)
			}
			if err != nil {
				spin.fail("Failed to resolve " + resource)
				return fmt.Errorf("%s", errors.UserMessage(err))
			}
			spin.stop()

			if !written {
				printInfo("Up to date")
				printFile(dest)
				return nil
			}
			printSuccess("Resolved %s", resource)
			printFile(dest)
			printNewline()
			printNextStep("Serve the repository", appName+" serve")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "o", "", "write to this file instead of the repository")
	cmd.Flags().StringVar(&since, "since", "", "only transfer when the feed copy changed after this RFC 3339 time")

	return cmd
}
