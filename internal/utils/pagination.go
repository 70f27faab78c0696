// Package utils provides small helpers shared across layers. Nothing in here
// knows about the domain.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 integer, returning def when s is empty or
// not a number. Query parameters like ?page= land here.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ClampInt bounds n to the inclusive range [lo, hi].
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
