package sorting

import (
	"strconv"
	"strings"

	"propsort/internal/model"
)

// Comparator implements the base name ordering shared by every strategy:
// numeric names first (by value), then lexicographic with optional case
// folding and natural-number comparison.
type Comparator struct {
	CaseSensitive bool
	NaturalSort   bool
	Descending    bool
}

// NewComparator builds the comparator for the given options.
func NewComparator(opts model.Options) Comparator {
	return Comparator{
		CaseSensitive: opts.CaseSensitive,
		NaturalSort:   opts.NaturalSort,
		Descending:    opts.Descending(),
	}
}

// Compare returns -1, 0, or +1 ordering a before/with/after b, with the
// configured direction applied. Numeric names order by value and come
// before non-numeric names in ascending direction; descending mirrors the
// whole relation.
func (c Comparator) Compare(a, b string) int {
	r := c.compareAsc(a, b)
	if c.Descending {
		return -r
	}
	return r
}

// Less is a convenience wrapper over Compare.
func (c Comparator) Less(a, b string) bool { return c.Compare(a, b) < 0 }

func (c Comparator) compareAsc(a, b string) int {
	na, aok := numericName(a)
	nb, bok := numericName(b)
	switch {
	case aok && bok:
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	}

	fa, fb := a, b
	if !c.CaseSensitive {
		fa, fb = strings.ToLower(a), strings.ToLower(b)
	}
	var r int
	if c.NaturalSort {
		r = naturalCompare(fa, fb)
	} else {
		r = strings.Compare(fa, fb)
	}
	if r == 0 {
		// deterministic tiebreak for names that fold equal
		r = strings.Compare(a, b)
	}
	return r
}

// numericName parses a property name as a number, tolerating one layer of
// single or double quotes around it.
func numericName(name string) (float64, bool) {
	s := trimQuotes(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// naturalCompare orders strings so embedded digit runs compare by value:
// item2 before item10. Equal values with different digit lengths compare by
// length so "01" and "1" stay deterministic.
func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			da := strings.TrimLeft(a[si:i], "0")
			db := strings.TrimLeft(b[sj:j], "0")
			if len(da) != len(db) {
				if len(da) < len(db) {
					return -1
				}
				return 1
			}
			if r := strings.Compare(da, db); r != 0 {
				return r
			}
			// same value, fewer leading zeros first
			if (i - si) != (j - sj) {
				if (i - si) < (j - sj) {
					return -1
				}
				return 1
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// CompareValues orders raw value texts type-aware: numbers by value, then
// booleans (false before true), then strings. Used when sorting array
// elements by content.
func (c Comparator) CompareValues(a, b string) int {
	r := compareValuesAsc(trimQuotes(strings.TrimSpace(a)), trimQuotes(strings.TrimSpace(b)))
	if c.Descending {
		return -r
	}
	return r
}

func compareValuesAsc(a, b string) int {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
		return 0
	}
	aBool := a == "true" || a == "false"
	bBool := b == "true" || b == "false"
	if aBool && bBool {
		if a == b {
			return 0
		}
		if a == "false" {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
