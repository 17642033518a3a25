// Package natsort compares strings in natural order: runs of digits are
// compared numerically and runs of other characters are compared
// case-insensitively as text, so "1.9" sorts before "1.10".
package natsort

import "strings"

// Compare reports the natural ordering of a and b: -1 if a sorts before b,
// 0 if they are equivalent, +1 if a sorts after b. Strings that differ only
// in case or in leading zeros of a digit run are equivalent.
func Compare(a, b string) int {
	sa, sb := split(a), split(b)
	for i := 0; i < len(sa) && i < len(sb); i++ {
		var c int
		if i%2 == 1 {
			c = compareNumeric(sa[i], sb[i])
		} else {
			c = compareFold(sa[i], sb[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(sa) < len(sb):
		return -1
	case len(sa) > len(sb):
		return 1
	default:
		return 0
	}
}

// split cuts s into alternating text and digit runs. The result always
// starts and ends with a (possibly empty) text run, so a given index holds
// the same kind of run for every input and runs compare positionally.
func split(s string) []string {
	var segs []string
	start := 0
	inDigits := false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d != inDigits {
			segs = append(segs, s[start:i])
			start = i
			inDigits = d
		}
	}
	segs = append(segs, s[start:])
	if inDigits {
		segs = append(segs, "")
	}
	return segs
}

// compareNumeric compares two digit runs by numeric value without parsing
// them into integers, so arbitrarily long runs are safe.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
