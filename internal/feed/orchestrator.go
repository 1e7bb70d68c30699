// Package feed implements the two-call curation pipeline: a collector call
// that retrieves raw candidate items via search grounding, then a separate
// analyst call (no grounding, enforced JSON output) that scores and
// classifies them. The provider cannot combine the two modes in one call,
// which is why the pipeline is two sequential calls and not one.
//
// A feed fetch is a passive background action: apart from a missing
// credential, every failure degrades to an empty result instead of an error.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"truthlens/internal/extract"
	"truthlens/internal/logging"
	"truthlens/internal/prompt"
	"truthlens/internal/types"
)

// Defaults applied during per-item normalization.
const (
	defaultConfidenceScore = 70
	defaultSubScore        = 50
	defaultAnalysisNote    = "Analysis pending."
	defaultSummary         = "No summary."
)

// Orchestrator runs the feed pipeline against an injected model invoker.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	invoker types.ModelInvoker
	now     func() time.Time
}

// New creates a feed orchestrator. A nil invoker means no credential was
// configured; Generate will fail fast with types.ErrMissingCredential.
func New(invoker types.ModelInvoker) *Orchestrator {
	return &Orchestrator{invoker: invoker, now: time.Now}
}

// Generate fetches and scores a feed for the given topics. The only possible
// error is a missing credential; any pipeline or extraction failure returns
// an empty list so the feed UI degrades to "no items" rather than crashing.
func (o *Orchestrator) Generate(ctx context.Context, topics []string) ([]types.NewsArticle, error) {
	if o.invoker == nil {
		return nil, types.ErrMissingCredential
	}

	timer := logging.StartTimer(logging.CategoryFeed, "feed pipeline")
	defer timer.StopWithInfo()

	candidates := o.collect(ctx, topics)
	if len(candidates) == 0 {
		logging.Feed("collector found no articles for topics %v", topics)
		return []types.NewsArticle{}, nil
	}

	analyzed, ok := o.analyze(ctx, candidates)
	if !ok {
		return []types.NewsArticle{}, nil
	}

	articles := make([]types.NewsArticle, 0, len(analyzed))
	for i, raw := range analyzed {
		item, _ := raw.(map[string]interface{}) // nil map means all defaults
		articles = append(articles, o.normalizeArticle(item, i, topics))
	}

	logging.Feed("feed generated: %d articles from %d candidates", len(articles), len(candidates))
	return articles, nil
}

// collect runs the grounded collector call and returns the usable candidate
// objects. Any failure yields an empty slice, which short-circuits the
// pipeline before the analyst call.
func (o *Orchestrator) collect(ctx context.Context, topics []string) []map[string]interface{} {
	p := prompt.MustBuild(prompt.KindCollectNews, prompt.Params{Topics: topics})

	resp, err := o.invoker.Invoke(ctx, types.ModelRequest{
		System:             p.System,
		Parts:              []types.ModelPart{{Text: p.Instruction}},
		EnableGoogleSearch: p.EnableGoogleSearch,
	})
	if err != nil {
		logging.FeedError("collector call failed: %v", err)
		return nil
	}

	list, ok := extract.List(resp.Text)
	if !ok {
		logging.FeedWarn("collector returned unparseable data")
		return nil
	}

	candidates := make([]map[string]interface{}, 0, len(list))
	for _, v := range list {
		if item, ok := v.(map[string]interface{}); ok {
			candidates = append(candidates, item)
		}
	}
	return candidates
}

// analyze runs the structured-output analyst call over the candidate batch.
// The prompt builder truncates the batch to prompt.MaxAnalysisBatch.
func (o *Orchestrator) analyze(ctx context.Context, candidates []map[string]interface{}) ([]interface{}, bool) {
	p, err := prompt.Build(prompt.KindAnalyzeAndScore, prompt.Params{Candidates: candidates})
	if err != nil {
		logging.FeedError("failed to build analyst prompt: %v", err)
		return nil, false
	}

	resp, err := o.invoker.Invoke(ctx, types.ModelRequest{
		System:           p.System,
		Parts:            []types.ModelPart{{Text: p.Instruction}},
		ResponseMIMEType: p.ResponseMIMEType,
	})
	if err != nil {
		logging.FeedError("analyst call failed: %v", err)
		return nil, false
	}

	list, ok := extract.List(resp.Text)
	if !ok {
		logging.FeedError("analyst returned invalid format")
		return nil, false
	}
	return list, true
}

// normalizeArticle builds one NewsArticle from a loosely-shaped analyst item.
// Identity is generated locally so ids stay unique even across duplicate
// titles; topics echo the request, never anything model-derived.
func (o *Orchestrator) normalizeArticle(item map[string]interface{}, index int, topics []string) types.NewsArticle {
	title := extract.String(item, "title")
	if title == "" {
		title = "Untitled"
	}

	summary := extract.String(item, "summary")
	if summary == "" {
		summary = extract.String(item, "snippet")
	}
	if summary == "" {
		summary = defaultSummary
	}

	source := extract.String(item, "source")
	if source == "" {
		source = "Unknown"
	}

	publishedAt := extract.String(item, "publishedAt")
	if publishedAt == "" {
		publishedAt = o.now().Format(time.RFC3339)
	}

	confidence := defaultConfidenceScore
	if _, present := item["confidenceScore"]; present {
		confidence = clampScore(extract.Int(item, "confidenceScore", defaultConfidenceScore))
	}

	return types.NewsArticle{
		ID:          fmt.Sprintf("news-%d-%s", index, uuid.NewString()),
		Title:       title,
		Summary:     summary,
		Source:      source,
		URL:         extract.String(item, "url"),
		ImageURL:    placeholderImageURL(index, o.now()),
		PublishedAt: publishedAt,

		Verdict:         types.ParseVerdict(extract.String(item, "verdict")),
		ConfidenceScore: confidence,

		AgentAnalysis: normalizeAnalysis(extract.ObjectField(item, "agentAnalysis")),
		Topics:        append([]string(nil), topics...),
	}
}

// normalizeAnalysis defaults every analyst sub-field; scores are clamped
// into [0,100] and never trusted to be present.
func normalizeAnalysis(obj map[string]interface{}) types.AgentAnalysis {
	sourceNotes := extract.String(obj, "sourceNotes")
	if sourceNotes == "" {
		sourceNotes = defaultAnalysisNote
	}
	contentNotes := extract.String(obj, "contentNotes")
	if contentNotes == "" {
		contentNotes = defaultAnalysisNote
	}
	evidence := extract.Strings(obj, "evidence")
	if evidence == nil {
		evidence = []string{}
	}

	return types.AgentAnalysis{
		SourceScore:  clampScore(extract.Int(obj, "sourceScore", defaultSubScore)),
		SourceNotes:  sourceNotes,
		ContentScore: clampScore(extract.Int(obj, "contentScore", defaultSubScore)),
		ContentNotes: contentNotes,
		Evidence:     evidence,
	}
}

// placeholderImageURL returns an illustrative stock image reference keyed by
// item index plus a freshness token, not a real editorial image.
func placeholderImageURL(index int, now time.Time) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/400/225", int64(index)+now.UnixMilli())
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
