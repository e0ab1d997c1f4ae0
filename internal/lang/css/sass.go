package css

import (
	"bytes"

	"propsort/internal/scan"
)

// Rewrite converts SASS indentation syntax into brace/semicolon form so the
// general scanner can parse it. Braces and semicolons are appended to
// existing lines (before any trailing comment), closing braces attach to the
// last content line of their block, and no line is ever added or removed, so
// line numbers in the result match the input exactly. A block only receives
// braces when at least one line sits beneath it; a dangling selector with no
// body is left as a bodyless statement.
func Rewrite(src []byte) []byte {
	_, blanked := scan.ExtractComments(src, scan.StyleSCSS)
	index := scan.NewLineIndex(src)
	n := index.NumLines()

	type lineInfo struct {
		line     int
		indent   int
		insertAt int // offset where appended syntax goes, before any comment
	}
	var content []lineInfo
	for l := 1; l <= n; l++ {
		start := index.LineStart(l)
		end := index.LineEnd(l, src)
		bl := bytes.TrimRight(blanked[start:end], " \t\r")
		if len(bytes.TrimSpace(bl)) == 0 {
			continue // blank or comment-only line
		}
		ws := bl[:len(bl)-len(bytes.TrimLeft(bl, " \t"))]
		content = append(content, lineInfo{
			line:     l,
			indent:   len(ws),
			insertAt: start + len(bl),
		})
	}

	suffix := make(map[int]string, len(content))
	var stack []int
	for i, li := range content {
		for len(stack) > 0 && li.indent <= stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			prev := content[i-1]
			suffix[prev.line] += " }"
		}
		if i+1 < len(content) && content[i+1].indent > li.indent {
			suffix[li.line] += " {"
			stack = append(stack, li.indent)
		} else {
			suffix[li.line] += ";"
		}
	}
	if len(content) > 0 {
		last := content[len(content)-1]
		for range stack {
			suffix[last.line] += " }"
		}
	}

	if len(suffix) == 0 {
		return src
	}
	insertAt := make(map[int]int, len(content))
	for _, li := range content {
		insertAt[li.line] = li.insertAt
	}
	var out bytes.Buffer
	out.Grow(len(src) + 4*len(suffix))
	for l := 1; l <= n; l++ {
		start := index.LineStart(l)
		end := len(src)
		if l < n {
			end = index.LineStart(l + 1)
		}
		s, ok := suffix[l]
		if !ok {
			out.Write(src[start:end])
			continue
		}
		at := insertAt[l]
		out.Write(src[start:at])
		out.WriteString(s)
		out.Write(src[at:end])
	}
	return out.Bytes()
}
