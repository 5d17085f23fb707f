// Package util holds small, dependency-free text helpers shared by the
// engine and HTTP surface.
package util

import "strings"

// WordCount counts whitespace-delimited tokens after trimming, matching the
// final story's word_count definition exactly (spec §4.2).
func WordCount(s string) int {
	return len(strings.Fields(strings.TrimSpace(s)))
}
