package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompter reads answers from in and writes questions to out
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	prompt lipgloss.Style
	hint   lipgloss.Style
}

// NewPrompter creates a prompter. Styles follow the color support of out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	r := lipgloss.NewRenderer(out)
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: r.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true),
		hint:   r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Prompt asks for text input. An empty answer, or a read error, returns
// defaultValue.
//
//	Module name (app): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(p.out, p.prompt.Render(message)+" "+p.hint.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, p.prompt.Render(message)+": ")
	}

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question. y and yes (any case) are true; an empty
// answer returns defaultYes.
//
//	Overwrite heron.yml? [y/N]: _
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(p.out, p.prompt.Render(message)+" "+p.hint.Render(hint)+": ")

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultYes
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// readLine returns the next trimmed line. A final line without a newline
// still counts; only an empty read at EOF fails.
func (p *Prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// IsInteractive reports whether r is a terminal
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
