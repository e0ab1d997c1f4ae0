// Package scan provides the shared low-level machinery for the hand-rolled
// language parsers: byte spans, offset-to-line mapping, comment extraction
// with position-preserving blanking, and source format detection.
//
// Parsers tokenize a blanked copy of the source (comments replaced by
// equal-length whitespace) so every offset they compute is valid in the
// original buffer. Comments are attached separately through a Registry that
// guarantees each comment is claimed by at most one property.
package scan

import "sort"

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

// Text returns the bytes the span covers in src.
func (s Span) Text(src []byte) string {
	if s.Empty() || s.Start < 0 || s.End > len(src) {
		return ""
	}
	return string(src[s.Start:s.End])
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// LineIndex maps byte offsets to 1-based line numbers and back.
type LineIndex struct {
	starts []int // byte offset of each line start, starts[0] == 0
	srcLen int
}

// NewLineIndex builds the index for src.
func NewLineIndex(src []byte) *LineIndex {
	ix := &LineIndex{starts: []int{0}, srcLen: len(src)}
	for i, b := range src {
		if b == '\n' {
			ix.starts = append(ix.starts, i+1)
		}
	}
	return ix
}

// NumLines returns the number of lines in the source. A trailing newline
// does not open a new line unless bytes follow it.
func (ix *LineIndex) NumLines() int {
	n := len(ix.starts)
	if n > 1 && ix.starts[n-1] >= ix.srcLen {
		return n - 1
	}
	return n
}

// LineOf returns the 1-based line containing the byte at offset. Offsets at
// or past the end of the source map to the last line.
func (ix *LineIndex) LineOf(offset int) int {
	if offset < 0 {
		return 1
	}
	// first line start strictly greater than offset
	i := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset })
	return i
}

// LineStart returns the byte offset where the 1-based line begins.
func (ix *LineIndex) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(ix.starts) {
		return ix.srcLen
	}
	return ix.starts[line-1]
}

// LineEnd returns the offset one past the last content byte of the line,
// excluding the line terminator.
func (ix *LineIndex) LineEnd(line int, src []byte) int {
	end := ix.srcLen
	if line < len(ix.starts) {
		end = ix.starts[line] // start of next line
	}
	for end > ix.LineStart(line) && (end-1 < len(src)) && (src[end-1] == '\n' || src[end-1] == '\r') {
		end--
	}
	return end
}

// LineSpan returns the byte span covering 1-based lines [from, to]
// inclusive, including the trailing terminator of the last line when one
// exists. This is the unit the line-based reconstructors splice.
func (ix *LineIndex) LineSpan(from, to int) Span {
	if from < 1 {
		from = 1
	}
	start := ix.LineStart(from)
	end := ix.srcLen
	if to+1 <= len(ix.starts) {
		end = ix.LineStart(to + 1)
	}
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}
