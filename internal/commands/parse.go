package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
	"github.com/spf13/cobra"
)

// ParseCmd creates the 'parse' command
func ParseCmd() *cobra.Command {
	var (
		format  string
		dialect string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Show what heron extracts from one build or settings file",
		Long: `Parses a single build script and prints its plugins, dependencies,
repositories and properties. Settings files print their includes.

The dialect follows the file extension (.kts is Kotlin) unless --dialect
is given.

Example:
  heron parse app/build.gradle
  heron parse build.gradle.kts --format json
  heron parse settings.gradle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading build file: %w", err)
			}

			d := buildfile.DialectForFile(path)
			if dialect != "" {
				if d, err = buildfile.ParseDialect(dialect); err != nil {
					return err
				}
			}

			if format == "" {
				format = "text"
			}
			if format != "text" && format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format '%s' (must be text, json or yaml)", format)
			}

			w := cmd.OutOrStdout()

			if strings.HasPrefix(filepath.Base(path), "settings.gradle") {
				includes := buildfile.ParseSettings(string(data), d)
				name, _ := buildfile.ParseRootProjectName(string(data))
				if format != "text" {
					return writeStructured(w, format, map[string]any{"root_project": name, "includes": includes})
				}
				if name != "" {
					fmt.Fprintf(w, "Root project: %s\n", name)
				}
				output.List("Includes", includes)
				return nil
			}

			facts := buildfile.Parse(string(data), d)
			if format != "text" {
				return writeStructured(w, format, facts)
			}

			output.Verbose(fmt.Sprintf("Parsed %s as %s", path, d))
			output.List("Plugins", facts.Plugins)

			deps := make([]string, 0, len(facts.Dependencies))
			for _, dep := range facts.Dependencies {
				deps = append(deps, dep.String())
			}
			output.List("Dependencies", deps)
			output.List("Repositories", facts.Repositories)

			props := []string{}
			for _, name := range buildfile.PropertyNames {
				if v, ok := facts.Property(name); ok {
					props = append(props, fmt.Sprintf("%s = %s", name, v))
				}
			}
			output.List("Properties", props)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&dialect, "dialect", "", "Force the dialect: groovy or kotlin")

	return cmd
}
