package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/heron/internal/exec"
	"github.com/simonhull/firebird-suite/heron/internal/generator"
	"github.com/simonhull/firebird-suite/heron/internal/input"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
	"github.com/spf13/cobra"
)

// NewCmd creates and returns the 'new' command for scaffolding modules
func NewCmd() *cobra.Command {
	var (
		directory     string
		projectType   string
		dsl           string
		javaVersion   string
		group         string
		gradleVersion string
		wrapper       bool
		dryRun        bool
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new Gradle module",
		Long: `Creates a new Gradle module with:
• A Groovy or Kotlin build script and settings file
• A main class and a JUnit 5 test
• A .gitignore
• The Gradle wrapper (unless --wrapper=false)

Example:
  heron new billing --directory services
  heron new shared --type library --dsl kotlin
  heron new api --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else if in := cmd.InOrStdin(); input.IsInteractive(in) {
				name = input.NewPrompter(in, cmd.OutOrStdout()).Prompt("Module name", "")
			}
			if name == "" {
				return fmt.Errorf("missing module name")
			}

			pt, err := generator.ParseProjectType(projectType)
			if err != nil {
				return err
			}
			dialect, err := buildfile.ParseDialect(dsl)
			if err != nil {
				return err
			}

			p, err := generator.Normalize(generator.ProjectOptions{
				Name:          name,
				Directory:     directory,
				Type:          pt,
				Dialect:       dialect,
				JavaVersion:   javaVersion,
				Group:         group,
				GradleVersion: gradleVersion,
				Wrapper:       wrapper,
			})
			if err != nil {
				return err
			}

			root := globals.root
			if root == "" {
				root = "."
			}

			output.Verbose(fmt.Sprintf("Creating %s module %s (%s DSL)", p.Type, p.Root, p.Dialect))

			ops, err := p.Operations(root, generator.NewRenderer())
			if err != nil {
				return err
			}

			ctx, cancel := interruptContext(cmd)
			defer cancel()

			if err := generator.Execute(ctx, ops, generator.ExecuteOptions{
				DryRun: dryRun,
				Force:  force,
				Writer: cmd.OutOrStdout(),
			}); err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			if p.Wrapper {
				e := exec.NewExecutor(&exec.Options{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr(), Spinner: true})
				if err := generator.InitWrapper(ctx, e, p.Dir(root), p.GradleVersion); err != nil {
					output.Warn(fmt.Sprintf("Could not create the Gradle wrapper: %v", err))
				}
			}

			output.Success(fmt.Sprintf("Created module: %s", p.Root))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", p.Dir(root)))
			if p.Wrapper {
				output.Step("./gradlew build")
			} else {
				output.Step("gradle build")
			}
			output.Step("heron graph  # See where it fits")
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Parent directory, relative to the workspace root")
	cmd.Flags().StringVarP(&projectType, "type", "t", string(generator.Application), "Module type: application or library")
	cmd.Flags().StringVar(&dsl, "dsl", "groovy", "Build script DSL: groovy or kotlin")
	cmd.Flags().StringVar(&javaVersion, "java-version", generator.DefaultJavaVersion, "Java source and target version")
	cmd.Flags().StringVar(&group, "group", generator.DefaultGroup, "Maven group id")
	cmd.Flags().StringVar(&gradleVersion, "gradle-version", generator.DefaultGradleVersion, "Gradle version for the wrapper")
	cmd.Flags().BoolVar(&wrapper, "wrapper", true, "Run 'gradle wrapper' after creating the files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be created without writing files")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}
