package scan

import (
	"strings"

	"propsort/internal/model"
)

// Style configures the comment extractor for one language family.
type Style struct {
	LineComments  bool // "//" to end of line
	BlockComments bool // "/*" .. "*/"

	// Quotes lists string delimiters that honor backslash escapes.
	Quotes []byte
	// RawQuote is a delimiter with no escape sequences (Go backtick).
	RawQuote byte
	// TemplateQuote is a delimiter with backslash escapes that may span
	// lines (TypeScript backtick).
	TemplateQuote byte

	// LineCommentsOutsideParens suppresses "//" detection inside
	// parentheses so url(http://...) survives in CSS values.
	LineCommentsOutsideParens bool
}

// Comment styles for the hand-tokenized languages.
var (
	StyleCSS = Style{
		BlockComments: true,
		Quotes:        []byte{'\'', '"'},
	}
	StyleSCSS = Style{
		LineComments:              true,
		BlockComments:             true,
		Quotes:                    []byte{'\'', '"'},
		LineCommentsOutsideParens: true,
	}
	StyleGo = Style{
		LineComments:  true,
		BlockComments: true,
		Quotes:        []byte{'"', '\''},
		RawQuote:      '`',
	}
	StyleJSON = Style{
		LineComments:  true,
		BlockComments: true,
		Quotes:        []byte{'"'},
	}
)

// Comment is one extracted comment with its exact source position.
type Comment struct {
	Span    Span
	Line    int // 1-based line of the opening marker
	EndLine int // 1-based line of the closing marker
	Type    model.CommentType
	Raw     string // verbatim source text, markers included
	Text    string // cleaned content
}

// Property returns the comment in the shape parsers attach to properties.
func (c Comment) Property() model.PropertyComment {
	return model.PropertyComment{Text: c.Text, Type: c.Type, Raw: c.Raw, Line: c.Line}
}

// ExtractComments finds every comment in src per the style and returns the
// comments in source order alongside a blanked copy of src in which each
// comment byte is replaced by a space. Newlines (and their carriage
// returns) inside comments are preserved so byte offsets and line numbers
// computed against the blanked copy hold in the original.
func ExtractComments(src []byte, style Style) ([]Comment, []byte) {
	blanked := make([]byte, len(src))
	copy(blanked, src)

	var comments []Comment
	line := 1
	parens := 0

	blank := func(start, end int) {
		for i := start; i < end && i < len(blanked); i++ {
			if blanked[i] == '\n' || blanked[i] == '\r' {
				continue
			}
			blanked[i] = ' '
		}
	}

	isQuote := func(b byte) bool {
		for _, q := range style.Quotes {
			if b == q {
				return true
			}
		}
		return false
	}

	i := 0
	for i < len(src) {
		b := src[i]
		switch {
		case b == '\n':
			line++
			i++
		case b == '(':
			parens++
			i++
		case b == ')':
			if parens > 0 {
				parens--
			}
			i++
		case style.RawQuote != 0 && b == style.RawQuote:
			i++
			for i < len(src) && src[i] != style.RawQuote {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			i++ // closing delimiter or EOF
		case style.TemplateQuote != 0 && b == style.TemplateQuote:
			i++
			for i < len(src) && src[i] != style.TemplateQuote {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				} else if src[i] == '\n' {
					line++
				}
				i++
			}
			i++
		case isQuote(b):
			q := b
			i++
			for i < len(src) && src[i] != q && src[i] != '\n' {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				i++
			}
			if i < len(src) && src[i] == q {
				i++
			}
		case style.LineComments && b == '/' && i+1 < len(src) && src[i+1] == '/' &&
			!(style.LineCommentsOutsideParens && parens > 0):
			start := i
			for i < len(src) && src[i] != '\n' {
				i++
			}
			end := i
			raw := string(src[start:end])
			comments = append(comments, Comment{
				Span:    Span{Start: start, End: end},
				Line:    line,
				EndLine: line,
				Type:    model.CommentSingle,
				Raw:     raw,
				Text:    CleanSingle(raw),
			})
			blank(start, end)
		case style.BlockComments && b == '/' && i+1 < len(src) && src[i+1] == '*':
			start := i
			startLine := line
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			if i < len(src) {
				i += 2 // consume "*/"
			}
			end := i
			raw := string(src[start:end])
			comments = append(comments, Comment{
				Span:    Span{Start: start, End: end},
				Line:    startLine,
				EndLine: line,
				Type:    model.CommentMulti,
				Raw:     raw,
				Text:    CleanMulti(raw),
			})
			blank(start, end)
		default:
			i++
		}
	}
	return comments, blanked
}

// CleanSingle strips the "//" or "#" marker and surrounding whitespace.
func CleanSingle(raw string) string {
	s := strings.TrimPrefix(raw, "//")
	if s == raw {
		s = strings.TrimPrefix(raw, "#")
	}
	return strings.TrimSpace(s)
}

// CleanMulti strips "/*", "*/" and any leading asterisk gutter from each
// interior line.
func CleanMulti(raw string) string {
	s := strings.TrimPrefix(raw, "/*")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		ln = strings.TrimSpace(ln)
		ln = strings.TrimPrefix(ln, "*")
		lines[i] = strings.TrimSpace(ln)
	}
	out := strings.Join(lines, "\n")
	return strings.TrimSpace(out)
}

// Registry enforces single attachment: a comment claimed by one property is
// never handed to another. Keys are comment start offsets, which are unique
// within one source buffer.
type Registry struct {
	claimed map[int]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{claimed: make(map[int]struct{})}
}

// Claim marks the comment as used. It returns false when the comment was
// already claimed, in which case the caller must not attach it.
func (r *Registry) Claim(c Comment) bool {
	if _, ok := r.claimed[c.Span.Start]; ok {
		return false
	}
	r.claimed[c.Span.Start] = struct{}{}
	return true
}

// Claimed reports whether the comment has been attached already.
func (r *Registry) Claimed(c Comment) bool {
	_, ok := r.claimed[c.Span.Start]
	return ok
}

// leadingGap is the maximum number of lines between a comment and the
// property it documents. A wider gap detaches the comment.
const leadingGap = 2

// LeadingFor collects the comments that document a property starting at
// propLine: the chain of unclaimed comments directly above it, each within
// leadingGap lines of the next. Comments at or above barrierLine belong to
// an earlier declaration and are never taken. The result is in source order
// and every returned comment is claimed.
func LeadingFor(comments []Comment, reg *Registry, propLine, barrierLine int) []Comment {
	var chain []Comment
	limit := propLine
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		if c.EndLine >= limit {
			continue
		}
		if c.Line <= barrierLine {
			break
		}
		if limit-c.EndLine > leadingGap {
			break
		}
		if reg.Claimed(c) {
			break
		}
		chain = append(chain, c)
		limit = c.Line
	}
	// reverse into source order and claim
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	for i := range chain {
		reg.Claim(chain[i])
	}
	return chain
}

// TrailingFor returns the unclaimed comments that sit on the given line at
// or after the offset where the property's text ends, claiming them.
func TrailingFor(comments []Comment, reg *Registry, line, afterOffset int) []Comment {
	var out []Comment
	for _, c := range comments {
		if c.Line != line || c.Span.Start < afterOffset {
			continue
		}
		if !reg.Claim(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Properties converts extracted comments to the model shape.
func Properties(cs []Comment) []model.PropertyComment {
	if len(cs) == 0 {
		return nil
	}
	out := make([]model.PropertyComment, len(cs))
	for i, c := range cs {
		out[i] = c.Property()
	}
	return out
}
