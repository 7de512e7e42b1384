package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbridge/pkg/archive"
	"github.com/matzehuels/nugetbridge/pkg/coordinate"
	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		pick bool
		tool bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <package> <version> [artifact]",
		Short: "Show the framework folders of a package and the selection",
		Long: `Download a package archive and list every framework folder that contains
the artifact, marking the folder the configured target framework selects.

The artifact defaults to the package id. With --pick the target framework is
chosen interactively.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			id := strings.ToLower(args[0])
			artifact := id
			if len(args) == 3 {
				artifact = strings.ToLower(args[2])
			}

			rt, err := c.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			pkg := coordinate.New(id, id, args[1], "", coordinate.TypePackage)
			archivePath := filepath.Join(rt.cfg.Repository, filepath.FromSlash(pkg.RepositoryPath()))

			spin := startSpinner(ctx, cmd.ErrOrStderr(), "Downloading "+pkg.ResourceString())
			if err := rt.engine.Get(ctx, pkg.RepositoryPath(), archivePath); err != nil {
				spin.fail("Failed to download package")
				return err
			}
			root, err := archive.NewUnpacker(rt.coordinator, logger).Unpack(archivePath)
			if err != nil {
				spin.fail("Failed to unpack package")
				return err
			}
			spin.stop()

			if tool {
				m, err := archive.FindTool(root, artifact+"."+coordinate.TypeTool)
				if err != nil {
					return err
				}
				printSuccess("Tool %s", m.Rel)
				return nil
			}

			name := artifact + "." + coordinate.TypeLibrary
			candidates := archive.Candidates(root, name)
			desired := rt.cfg.DesiredFramework()

			if pick {
				if len(candidates) == 0 {
					return errors.New(errors.ErrCodeArtifactNotFound, "no framework folders contain %s", name)
				}
				chosen, err := runFrameworkPicker(candidates)
				if err != nil {
					return err
				}
				if chosen == nil {
					printInfo("No framework selected")
					return nil
				}
				desired = *chosen
			}

			fmt.Println(StyleTitle.Render(pkg.ResourceString()))
			printKeyValue("Archive", archivePath)
			printKeyValue("Framework", desired.VersionedShortName())
			printNewline()

			m, findErr := archive.FindLibrary(root, name, desired)
			if len(candidates) > 0 {
				fmt.Println(renderCandidates(candidates, name, m.Rel, desired))
				printNewline()
			}
			if findErr != nil {
				printWarning("%s", errors.UserMessage(findErr))
				return nil
			}

			printSuccess("Selected %s", m.Rel)
			if pick {
				printNextStep("Use this framework", fmt.Sprintf("%s get --framework %s %s", appName,
					desired.VersionedShortName(), coordinate.New(id, artifact, args[1], "", coordinate.TypeLibrary).RepositoryPath()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose the target framework interactively")
	cmd.Flags().BoolVar(&tool, "tool", false, "look for a tool (exe) instead of a library")

	return cmd
}

// runFrameworkPicker shows the picker and returns the chosen framework, or
// nil when the user quit without choosing.
func runFrameworkPicker(candidates []archive.Candidate) (*framework.Version, error) {
	final, err := tea.NewProgram(NewFrameworkPickerModel(candidates)).Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}
	return final.(FrameworkPickerModel).Selected, nil
}
