package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbridge/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the repository over HTTP",
		Long: `Serve the Maven repository layout at /maven2/. Every GET resolves the
requested file from the feed on first use. Point a Maven build at it with:

  <repository>
    <id>nuget</id>
    <url>http://127.0.0.1:8080/maven2</url>
  </repository>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			rt, err := c.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr == "" {
				addr = rt.cfg.Server.Addr
			}
			srv := server.New(server.Options{
				Resolver:   rt.engine,
				Repository: rt.cfg.Repository,
				Logger:     logger,
			})

			printSuccess("Serving %s", rt.feed.BaseURL())
			printKeyValue("URL", StyleLink.Render("http://"+addr+server.RoutePrefix))
			printKeyValue("Repository", rt.cfg.Repository)
			printKeyValue("Framework", rt.engine.Framework().VersionedShortName())
			printNewline()

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
