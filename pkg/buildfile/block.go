package buildfile

// span is a half-open byte range into a source view
type span struct {
	start, end int
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// findBlock locates the body of the first `name { ... }` block in the
// skeleton. With topLevel set, only blocks opened at brace depth zero are
// considered. The returned span excludes the braces themselves. A block
// whose closing brace is missing runs to the end of the text.
func findBlock(skeleton, name string, topLevel bool) (span, bool) {
	n := len(skeleton)
	depth := 0

	for i := 0; i < n; i++ {
		switch skeleton[i] {
		case '{':
			depth++
			continue
		case '}':
			if depth > 0 {
				depth--
			}
			continue
		}

		if topLevel && depth != 0 {
			continue
		}
		if !matchesKeyword(skeleton, i, name) {
			continue
		}

		j := i + len(name)
		for j < n && isSpace(skeleton[j]) {
			j++
		}
		if j >= n || skeleton[j] != '{' {
			continue
		}

		return span{start: j + 1, end: closingBrace(skeleton, j)}, true
	}

	return span{}, false
}

// matchesKeyword reports whether name occurs at i as a whole identifier
func matchesKeyword(s string, i int, name string) bool {
	if i+len(name) > len(s) || s[i:i+len(name)] != name {
		return false
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return false
	}
	if end := i + len(name); end < len(s) && isIdentByte(s[end]) {
		return false
	}
	return true
}

// closingBrace returns the offset of the brace that closes the one at
// open, or len(s) when it is never closed.
func closingBrace(s string, open int) int {
	depth := 0
	for k := open; k < len(s); k++ {
		switch s[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return len(s)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// blockBody returns the comment-free text of the first matching block
func blockBody(src source, name string, topLevel bool) (string, bool) {
	sp, ok := findBlock(src.skeleton, name, topLevel)
	if !ok {
		return "", false
	}
	return src.code[sp.start:sp.end], true
}
