package css

// Specificity computes a simplified selector weight: 100 per ID, 10 per
// class, attribute selector, or pseudo-class, and 1 per element name.
// Pseudo-elements (double colon) count as elements. For selector lists the
// highest weight wins.
func Specificity(selector string) int {
	best := 0
	for _, part := range splitTopLevel(selector, ',') {
		if w := specificityOf(part); w > best {
			best = w
		}
	}
	return best
}

func specificityOf(sel string) int {
	score := 0
	i := 0
	for i < len(sel) {
		switch c := sel[i]; {
		case c == '#':
			i++
			i = skipIdent(sel, i)
			score += 100
		case c == '.':
			i++
			i = skipIdent(sel, i)
			score += 10
		case c == '[':
			for i < len(sel) && sel[i] != ']' {
				i++
			}
			i++
			score += 10
		case c == ':':
			double := i+1 < len(sel) && sel[i+1] == ':'
			i++
			if double {
				i++
			}
			i = skipIdent(sel, i)
			if i < len(sel) && sel[i] == '(' {
				i = skipParens(sel, i)
			}
			if double {
				score++
			} else {
				score += 10
			}
		case c == '*', c == ' ', c == '\t', c == '\n', c == '\r',
			c == '>', c == '+', c == '~', c == '&':
			i++
		case isIdentByte(c):
			i = skipIdent(sel, i)
			score++
		default:
			i++
		}
	}
	return score
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func skipIdent(s string, i int) int {
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return i
}

func skipParens(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c == '%' ||
		c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= 0x80
}
