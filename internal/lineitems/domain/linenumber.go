// Package domain holds line item ordering rules.
package domain

import (
	"strconv"
	"strings"
)

// CompareLineNumbers orders line numbers numerically: "10" sorts after "9",
// not between "1" and "2". Line numbers stay strings in storage because
// imports occasionally carry non-numeric values; those sort after all
// numeric ones, lexicographically among themselves.
func CompareLineNumbers(a, b string) int {
	numA, okA := parseLineNumber(a)
	numB, okB := parseLineNumber(b)

	switch {
	case okA && okB:
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		default:
			return 0
		}
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseLineNumber(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}
