package exec

import (
	"bytes"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// PrefixWriter tags each line of output with a module name
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line with [module]
func NewPrefixWriter(writer io.Writer, module string) *PrefixWriter {
	return &PrefixWriter{
		prefix: lipgloss.NewRenderer(writer).NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("["+module+"]") + " ",
		writer: writer,
	}
}

// Write emits every complete line and keeps the rest for the next call
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		line := p.buffer[:i+1]
		if _, err := io.WriteString(p.writer, p.prefix+string(line)); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes a trailing partial line, if any
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := io.WriteString(p.writer, p.prefix+string(p.buffer)+"\n")
	p.buffer = p.buffer[:0]
	return err
}
