package commands

import (
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/heron/internal/input"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
	"github.com/spf13/cobra"
)

// InitCmd creates the 'init' command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a heron.yml with the default settings",
		Long: `Writes heron.yml to the workspace root with every setting at its default
value. Settings can also be overridden with HERON_* environment variables.
An existing file is only replaced with --force or after confirmation.

Example:
  heron init
  heron init --root ../shop --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := globals.root
			if root == "" {
				root = "."
			}

			path := filepath.Join(root, config.FileName)
			if config.Exists(root) && !force {
				in := cmd.InOrStdin()
				if !input.IsInteractive(in) || !input.NewPrompter(in, cmd.OutOrStdout()).Confirm(fmt.Sprintf("Overwrite %s?", path), false) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Created %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing heron.yml")

	return cmd
}
