// Package input provides interactive terminal prompts.
//
// Commands prompt only when stdin is a terminal; flags cover every
// question so scripts and CI never block:
//
//	p := input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
//	if input.IsInteractive(cmd.InOrStdin()) {
//	    name = p.Prompt("Module name", "app")
//	}
//
// Prompts are rendered in bold cyan and hints (defaults, [Y/n]) in gray.
package input
