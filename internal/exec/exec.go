package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Executor runs external commands
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	dir     string
	spinner bool

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string // Additional environment variables
	Dir     string   // Working directory
	Spinner bool     // Show a spinner instead of streaming output when stderr is a terminal
}

// NewExecutor creates an executor. Nil options stream to stdout and stderr
// with the spinner enabled.
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
			Spinner: true,
		}
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		spinner:     opts.Spinner,
		commandFunc: exec.Command,
	}
}

// clone returns a copy that can be changed without touching e
func (e *Executor) clone() *Executor {
	c := *e
	c.env = append([]string(nil), e.env...)
	return &c
}

// WithDir returns a copy of the executor running in dir
func (e *Executor) WithDir(dir string) *Executor {
	c := e.clone()
	c.dir = dir
	return c
}

// WithEnv returns a copy of the executor with extra environment entries
func (e *Executor) WithEnv(env ...string) *Executor {
	c := e.clone()
	c.env = append(c.env, env...)
	return c
}

// WithOutput returns a copy of the executor writing to stdout and stderr
func (e *Executor) WithOutput(stdout, stderr io.Writer) *Executor {
	c := e.clone()
	c.stdout = stdout
	c.stderr = stderr
	return c
}

// Run executes a command, streaming its output
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)

	if e.dir != "" {
		cmd.Dir = e.dir
	}

	if len(e.env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = append(base, e.env...)
	}

	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return &NotFoundError{Command: name, Err: err}
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			if isCommandNotFound(err) {
				return &NotFoundError{Command: name, Err: err}
			}
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// RunWithSpinner runs a command behind a progress spinner. Output is
// buffered and replayed to stderr only when the command fails. Without a
// terminal, or with the spinner disabled, it behaves like Run.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	if !e.spinner || !isTerminal(e.stderr) {
		return e.Run(ctx, name, args...)
	}

	var captured lockedBuffer
	quiet := e.WithOutput(&captured, &captured)

	done := make(chan error, 1)
	go func() {
		done <- quiet.Run(ctx, name, args...)
	}()

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))
	finished := make(chan struct{})
	go func() {
		// A spinner that cannot start must not fail the command
		_, _ = p.Run()
		close(finished)
	}()

	err := <-done
	p.Send(spinnerDoneMsg{err: err})
	<-finished

	if err != nil {
		io.Copy(e.stderr, captured.Reader())
	}
	return err
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// lockedBuffer collects output from both streams of a command
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Reader() io.Reader {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.NewReader(b.buf.Bytes())
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

// NotFoundError reports a build tool that is not installed
type NotFoundError struct {
	Command string
	Err     error
}

func (e *NotFoundError) Error() string {
	hint := fmt.Sprintf("Command '%s' not found. Please install it and try again", e.Command)
	if e.Command == "gradle" {
		hint = "Command 'gradle' not found. Install Gradle or add a wrapper with 'gradle wrapper'"
	}
	return fmt.Sprintf("%v\n💡 %s", e.Err, hint)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// Command provides a fluent API for building and executing commands
type Command struct {
	executor    *Executor
	command     string
	args        []string
	env         []string
	dir         string
	showSpinner bool
	spinnerMsg  string
}

// NewCommand creates a new command builder
func NewCommand(executor *Executor, command string) *Command {
	return &Command{
		executor: executor,
		command:  command,
		args:     []string{},
	}
}

// WithArgs adds arguments to the command
func (c *Command) WithArgs(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// WithEnv adds environment variables
func (c *Command) WithEnv(env ...string) *Command {
	c.env = append(c.env, env...)
	return c
}

// WithDir sets the working directory
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithSpinner enables the spinner with the given message
func (c *Command) WithSpinner(message string) *Command {
	c.showSpinner = true
	c.spinnerMsg = message
	return c
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	e := c.executor.WithEnv(c.env...)
	if c.dir != "" {
		e.dir = c.dir
	}

	if c.showSpinner {
		return e.RunWithSpinner(ctx, c.spinnerMsg, c.command, c.args...)
	}
	return e.Run(ctx, c.command, c.args...)
}

// String returns the command line for display
func (c *Command) String() string {
	parts := []string{c.command}
	parts = append(parts, c.args...)
	return strings.Join(parts, " ")
}
