package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ford-at-home/storygen-sub000/internal/session"
)

var depthScorePattern = regexp.MustCompile(`(?i)SCORE:\s*([0-9]*\.?[0-9]+)`)

// parseDepthScore extracts the numeric score the depth_analysis prompt
// asks for. A missing or unparsable score is tolerated rather than
// rejected: it is treated as the lowest possible score, which always
// classifies as insufficient and routes to a follow-up question (spec
// §4.2: "a malformed or missing score is tolerated by the parser ... and
// treated as insufficient").
func parseDepthScore(text string) float64 {
	m := depthScorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}

// candidatePattern matches one "HOOK N: <title> - <body>" or
// "CTA N: <title> - <body>" line. The title/body split on the first " - "
// rather than a greedy one so a hyphen inside the body doesn't confuse the
// match.
func candidatePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\s*` + label + `\s*\d+\s*:\s*(.+?)\s+-\s+(.+?)\s*$`)
}

// parseCandidates extracts up to three labeled candidates (hooks or CTAs)
// from generated text, per the exact-format contract the prompt library
// demands (spec §4.2: "the LLM must return exactly 3 candidates").
func parseCandidates(text, label string) []session.Candidate {
	re := candidatePattern(label)
	matches := re.FindAllStringSubmatch(text, -1)
	candidates := make([]session.Candidate, 0, len(matches))
	for _, m := range matches {
		title := strings.TrimSpace(m[1])
		body := strings.TrimSpace(m[2])
		if title == "" || body == "" {
			continue
		}
		candidates = append(candidates, session.Candidate{Title: title, Body: body})
		if len(candidates) == 3 {
			break
		}
	}
	return candidates
}
