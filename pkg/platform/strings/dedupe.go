// Package strings holds small helpers for string lists read from env vars and
// query strings.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim trims each value, drops empty ones and keeps the first
// occurrence of each remaining value. Order is preserved; the result is never nil.
func DedupeAndTrim(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// SplitList splits a comma separated list and applies DedupeAndTrim.
func SplitList(raw string) []string {
	return DedupeAndTrim(strings.Split(raw, ","))
}
