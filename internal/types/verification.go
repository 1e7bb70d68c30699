package types

// Source is one evidence citation. Identity is the URI: when two sources
// share a URI the first-seen entry wins during reconciliation.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// VerificationResult is the outcome of one verification call. Constructed
// once, immutable; optionally appended to a user's history by the caller.
type VerificationResult struct {
	Verdict      VerdictType  `json:"verdict"`
	Confidence   int          `json:"confidence"` // 0-100
	Summary      string       `json:"summary"`
	Evidence     []string     `json:"evidence"`
	Sources      []Source     `json:"sources"`
	AnalysisType AnalysisType `json:"analysisType"`
}
