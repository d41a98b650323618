package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/report"
	"github.com/spf13/cobra"
)

// ReportCmd creates the 'report' command
func ReportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a workspace health report",
		Long: `Summarizes the workspace: a mermaid diagram of the graph, fan-in,
fan-out and instability per module, build levels, circular dependencies
and version drift.

Formats: markdown (default), html, json, yaml.

Example:
  heron report > WORKSPACE.md
  heron report --format html --output report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validReportFormat(format) {
				return fmt.Errorf("invalid format '%s' (must be one of %s)", format, strings.Join(report.Formats, ", "))
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			a, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}

			r := report.Build(a, uniqueCycles(a.Cycles()))

			var buf bytes.Buffer
			switch format {
			case "markdown":
				err = report.WriteMarkdown(&buf, r)
			case "html":
				err = report.WriteHTML(&buf, r)
			default:
				err = writeStructured(&buf, format, r)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			output.Success(fmt.Sprintf("Wrote %s", out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown, html, json, yaml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func validReportFormat(f string) bool {
	for _, known := range report.Formats {
		if f == known {
			return true
		}
	}
	return false
}
