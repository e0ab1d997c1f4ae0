package scan

import (
	"bytes"
	"strings"
)

// DetectLineEnding returns "\r\n" when the source uses CRLF terminators,
// otherwise "\n". Mixed files follow the first terminator seen.
func DetectLineEnding(src []byte) string {
	i := bytes.IndexByte(src, '\n')
	if i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// DetectIndentUnit inspects the source and returns the indentation unit in
// use: "\t" when tabs lead indented lines, otherwise the smallest leading
// space run observed (defaulting to two spaces when nothing is indented).
func DetectIndentUnit(src []byte) string {
	smallest := 0
	for _, line := range bytes.Split(src, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if line[0] == '\t' {
			return "\t"
		}
		if line[0] != ' ' {
			continue
		}
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if n == len(line) {
			continue // whitespace-only line
		}
		if smallest == 0 || n < smallest {
			smallest = n
		}
	}
	if smallest == 0 {
		smallest = 2
	}
	return strings.Repeat(" ", smallest)
}

// LeadingWhitespace returns the run of spaces and tabs at the start of line.
func LeadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// IndentWidth measures an indentation string in columns, counting a tab as
// the given tab size.
func IndentWidth(indent string, tabSize int) int {
	w := 0
	for i := 0; i < len(indent); i++ {
		if indent[i] == '\t' {
			w += tabSize
		} else {
			w++
		}
	}
	return w
}

// NormalizeLineEndings rewrites every terminator in text to the given
// ending. Used when the caller forces LF or CRLF output.
func NormalizeLineEndings(text, ending string) string {
	if ending != "\n" && ending != "\r\n" {
		return text
	}
	unified := strings.ReplaceAll(text, "\r\n", "\n")
	if ending == "\n" {
		return unified
	}
	return strings.ReplaceAll(unified, "\n", "\r\n")
}
