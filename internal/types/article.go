// Package types holds the data shapes that cross between the orchestration
// core and its callers, plus the model-invocation boundary interface.
// Orchestrators depend only on these types so tests can inject mock invokers.
package types

// AgentAnalysis carries the analyst-stage sub-scores for one feed item.
// Scores are clamped into [0,100] during normalization and are never
// trusted to be present in raw model output.
type AgentAnalysis struct {
	SourceScore  int      `json:"sourceScore"`  // publisher trustworthiness, 0-100
	SourceNotes  string   `json:"sourceNotes"`  // free text
	ContentScore int      `json:"contentScore"` // 100 = neutral, 0 = sensational
	ContentNotes string   `json:"contentNotes"` // free text
	Evidence     []string `json:"evidence"`     // ordered free-text claims
}

// NewsArticle is one curated feed item. Constructed fresh on every feed
// fetch, never mutated afterwards, never persisted across sessions.
// ID is generated locally; the model never supplies identity.
type NewsArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"` // publisher name, not a validated URL
	URL         string `json:"url,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"` // best-effort date string

	Verdict         VerdictType `json:"verdict"`
	ConfidenceScore int         `json:"confidenceScore"` // 0-100

	AgentAnalysis AgentAnalysis `json:"agentAnalysis"`
	Topics        []string      `json:"topics"` // request topics echoed back
}
