package engine

// Per-stage completion token budgets. The engine picks these; only the
// final assembly call uses the style's own budget (spec §4.2: "token
// budget from style table").
const (
	tokensDepthScore   = 64
	tokensQuestion     = 200
	tokensCandidates   = 600
	tokensNarrativeArc = 400
	tokensQuote        = 120
)
