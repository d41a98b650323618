package buildfile

import "strings"

// source holds two views of the same build text, both the same length
// as the original so offsets are interchangeable.
//
// code has comments blanked out. skeleton additionally blanks the
// interior of every string literal, which leaves only the structural
// characters that brace matching may look at.
type source struct {
	code     string
	skeleton string
}

// scrub produces the code and skeleton views of text. Newlines are kept
// in both views. Recognized literals: // and /* */ comments, "..." and
// '...' strings with backslash escapes (ending at a newline when
// unterminated), and """...""" / '''...''' multi-line strings.
func scrub(text string) source {
	n := len(text)
	code := []byte(text)
	skel := []byte(text)

	blank := func(buf []byte, i int) {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}

	i := 0
	for i < n {
		ch := text[i]
		switch {
		case ch == '/' && i+1 < n && text[i+1] == '/':
			for i < n && text[i] != '\n' {
				blank(code, i)
				blank(skel, i)
				i++
			}

		case ch == '/' && i+1 < n && text[i+1] == '*':
			stop := n
			if end := strings.Index(text[i+2:], "*/"); end >= 0 {
				stop = i + 2 + end + 2
			}
			for ; i < stop; i++ {
				blank(code, i)
				blank(skel, i)
			}

		case ch == '"' || ch == '\'':
			if i+2 < n && text[i+1] == ch && text[i+2] == ch {
				closeAt, stop := n, n
				if end := strings.Index(text[i+3:], strings.Repeat(string(ch), 3)); end >= 0 {
					closeAt = i + 3 + end
					stop = closeAt + 3
				}
				for j := i + 3; j < closeAt; j++ {
					blank(skel, j)
				}
				i = stop
				continue
			}

			j := i + 1
			for j < n && text[j] != ch && text[j] != '\n' {
				if text[j] == '\\' && j+1 < n && text[j+1] != '\n' {
					blank(skel, j)
					j++
				}
				blank(skel, j)
				j++
			}
			if j < n && text[j] == ch {
				j++
			}
			i = j

		default:
			i++
		}
	}

	return source{code: string(code), skeleton: string(skel)}
}
