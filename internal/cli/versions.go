package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		refresh bool
		asJSON  bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "versions <package>",
		Short: "List the published versions of a package",
		Long: `List the versions the feed publishes for a package, together with the
latest and release versions reported in maven-metadata.xml.

Version indexes are cached; use --refresh to bypass the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := strings.ToLower(args[0])

			rt, err := c.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			spin := startSpinner(ctx, cmd.ErrOrStderr(), "Fetching versions of "+id)
			idx, err := rt.feed.Versions(ctx, id, refresh)
			if err != nil {
				spin.fail("Failed to fetch versions")
				return err
			}
			spin.stop()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					ID       string   `json:"id"`
					Latest   string   `json:"latest"`
					Release  string   `json:"release"`
					Versions []string `json:"versions"`
				}{id, idx.Latest(), idx.Release(), idx.Versions})
			}

			fmt.Println(StyleTitle.Render(id))
			printKeyValue("Latest", idx.Latest())
			printKeyValue("Release", idx.Release())
			printKeyValue("Versions", fmt.Sprintf("%d", len(idx.Versions)))
			printNewline()

			shown := idx.Versions
			if limit > 0 && len(shown) > limit {
				shown = shown[len(shown)-limit:]
				printDetail("... %d older versions", len(idx.Versions)-limit)
			}
			for _, v := range shown {
				fmt.Println("  " + StyleValue.Render(v))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the version index cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many recent versions (0 for all)")

	return cmd
}
