package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"truthlens/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedInvoker replies in order from a fixed script, recording requests.
type scriptedInvoker struct {
	mu      sync.Mutex
	calls   []types.ModelRequest
	replies []reply
}

type reply struct {
	text string
	err  error
}

func (s *scriptedInvoker) Invoke(ctx context.Context, req types.ModelRequest) (*types.ModelResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if len(s.replies) == 0 {
		return &types.ModelResponse{Text: "[]"}, nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	return &types.ModelResponse{Text: r.text}, nil
}

// candidateBatch decodes the JSON array embedded in the analyst instruction.
func candidateBatch(t *testing.T, instruction string) []map[string]interface{} {
	t.Helper()
	start := strings.Index(instruction, "[")
	end := strings.LastIndex(instruction, "]")
	if start < 0 || end < start {
		t.Fatalf("no JSON array in analyst instruction: %q", instruction)
	}
	var batch []map[string]interface{}
	if err := json.Unmarshal([]byte(instruction[start:end+1]), &batch); err != nil {
		t.Fatalf("decoding candidate batch: %v", err)
	}
	return batch
}

func TestGenerate_MissingCredential(t *testing.T) {
	if _, err := New(nil).Generate(context.Background(), []string{"Tech"}); !errors.Is(err, types.ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
}

func TestGenerate_EmptyCollectorSkipsAnalyst(t *testing.T) {
	mock := &scriptedInvoker{replies: []reply{{text: "[]"}}}

	articles, err := New(mock).Generate(context.Background(), []string{"Tech"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Fatalf("articles = %#v, want empty non-nil list", articles)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("call count = %d, want 1 (no analyst call)", len(mock.calls))
	}
}

func TestGenerate_CollectorFailureDegradesToEmpty(t *testing.T) {
	mock := &scriptedInvoker{replies: []reply{{err: errors.New("timeout")}}}

	articles, err := New(mock).Generate(context.Background(), []string{"Tech"})
	if err != nil {
		t.Fatalf("Generate error: %v, want degraded empty result", err)
	}
	if len(articles) != 0 {
		t.Fatalf("articles = %v, want empty", articles)
	}
}

func TestGenerate_AnalystFailureDegradesToEmpty(t *testing.T) {
	mock := &scriptedInvoker{replies: []reply{
		{text: `[{"title": "Story"}]`},
		{err: errors.New("quota")},
	}}

	articles, err := New(mock).Generate(context.Background(), []string{"Tech"})
	if err != nil {
		t.Fatalf("Generate error: %v, want degraded empty result", err)
	}
	if len(articles) != 0 {
		t.Fatalf("articles = %v, want empty", articles)
	}
	if len(mock.calls) != 2 {
		t.Fatalf("call count = %d, want 2", len(mock.calls))
	}
}

func TestGenerate_BatchCappedAtSix(t *testing.T) {
	var items []string
	for i := 0; i < 9; i++ {
		items = append(items, `{"title": "story `+string(rune('0'+i))+`"}`)
	}
	collected := "[" + strings.Join(items, ",") + "]"

	mock := &scriptedInvoker{replies: []reply{
		{text: collected},
		{text: "[]"},
	}}

	if _, err := New(mock).Generate(context.Background(), []string{"Tech"}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(mock.calls) != 2 {
		t.Fatalf("call count = %d, want 2", len(mock.calls))
	}

	batch := candidateBatch(t, mock.calls[1].Parts[0].Text)
	if len(batch) != 6 {
		t.Fatalf("analyst batch size = %d, want 6", len(batch))
	}
	for i, item := range batch {
		want := "story " + string(rune('0'+i))
		if item["title"] != want {
			t.Errorf("batch[%d].title = %v, want %q (head of list kept)", i, item["title"], want)
		}
	}
}

func TestGenerate_CallModes(t *testing.T) {
	mock := &scriptedInvoker{replies: []reply{
		{text: `[{"title": "Story"}]`},
		{text: `[{"title": "Story", "verdict": "REAL"}]`},
	}}

	if _, err := New(mock).Generate(context.Background(), []string{"Tech"}); err != nil {
		t.Fatal(err)
	}

	collector := mock.calls[0]
	if !collector.EnableGoogleSearch || collector.ResponseMIMEType != "" {
		t.Errorf("collector call: search=%v mime=%q, want grounded without enforced output",
			collector.EnableGoogleSearch, collector.ResponseMIMEType)
	}
	analyst := mock.calls[1]
	if analyst.EnableGoogleSearch || analyst.ResponseMIMEType != "application/json" {
		t.Errorf("analyst call: search=%v mime=%q, want enforced JSON without grounding",
			analyst.EnableGoogleSearch, analyst.ResponseMIMEType)
	}
}

func TestGenerate_DuplicateTitlesGetDistinctIDs(t *testing.T) {
	mock := &scriptedInvoker{replies: []reply{
		{text: `[{"title": "Same"}, {"title": "Same"}]`},
		{text: `[{"title": "Same"}, {"title": "Same"}]`},
	}}

	articles, err := New(mock).Generate(context.Background(), []string{"Tech"})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}
	if articles[0].ID == "" || articles[0].ID == articles[1].ID {
		t.Fatalf("ids %q and %q must be distinct and non-empty", articles[0].ID, articles[1].ID)
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	analyzed := `[{
		"title": "Chip breakthrough announced",
		"source": "Reuters",
		"url": "http://reuters.example/chip",
		"publishedAt": "2026-08-30",
		"summary": "A new fabrication process.",
		"verdict": "REAL",
		"confidenceScore": 95,
		"agentAnalysis": {
			"sourceScore": 98,
			"sourceNotes": "Wire service with strong editorial record.",
			"contentScore": 90,
			"contentNotes": "Neutral tone.",
			"evidence": ["corroborated by AP"]
		}
	}]`
	mock := &scriptedInvoker{replies: []reply{
		{text: "```json\n" + `[{"title": "Chip breakthrough announced", "url": "http://reuters.example/chip"}]` + "\n```"},
		{text: analyzed},
	}}

	articles, err := New(mock).Generate(context.Background(), []string{"Technology"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles = %d, want 1", len(articles))
	}

	a := articles[0]
	if a.ID == "" {
		t.Error("ID must be populated")
	}
	if a.Verdict != types.VerdictReal {
		t.Errorf("Verdict = %s, want REAL", a.Verdict)
	}
	if a.ConfidenceScore != 95 {
		t.Errorf("ConfidenceScore = %d, want 95", a.ConfidenceScore)
	}
	if a.Title != "Chip breakthrough announced" || a.Source != "Reuters" {
		t.Errorf("title/source = %q/%q", a.Title, a.Source)
	}
	if a.AgentAnalysis.SourceScore != 98 || len(a.AgentAnalysis.Evidence) != 1 {
		t.Errorf("agent analysis = %+v", a.AgentAnalysis)
	}
	if len(a.Topics) != 1 || a.Topics[0] != "Technology" {
		t.Errorf("Topics = %v, want request topics echoed", a.Topics)
	}
	if a.ImageURL == "" || !strings.HasPrefix(a.ImageURL, "https://picsum.photos/seed/") {
		t.Errorf("ImageURL = %q", a.ImageURL)
	}
}

func TestNormalizeArticle_Defaults(t *testing.T) {
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	o := &Orchestrator{now: func() time.Time { return fixed }}

	a := o.normalizeArticle(map[string]interface{}{}, 0, []string{"Health"})

	if a.Title != "Untitled" || a.Summary != defaultSummary || a.Source != "Unknown" {
		t.Errorf("defaults = %q/%q/%q", a.Title, a.Summary, a.Source)
	}
	if a.PublishedAt != fixed.Format(time.RFC3339) {
		t.Errorf("PublishedAt = %q, want clock time", a.PublishedAt)
	}
	if a.ConfidenceScore != defaultConfidenceScore {
		t.Errorf("ConfidenceScore = %d, want %d when absent", a.ConfidenceScore, defaultConfidenceScore)
	}
	if a.Verdict != types.VerdictUnverified {
		t.Errorf("Verdict = %s, want UNVERIFIED", a.Verdict)
	}
	if a.AgentAnalysis.SourceScore != defaultSubScore || a.AgentAnalysis.SourceNotes != defaultAnalysisNote {
		t.Errorf("agent analysis = %+v", a.AgentAnalysis)
	}
	if a.AgentAnalysis.Evidence == nil {
		t.Error("Evidence must be an empty list, not nil")
	}
}

func TestNormalizeArticle_PresentZeroConfidenceKept(t *testing.T) {
	o := New(&scriptedInvoker{})

	a := o.normalizeArticle(map[string]interface{}{"confidenceScore": float64(0)}, 0, nil)
	if a.ConfidenceScore != 0 {
		t.Fatalf("ConfidenceScore = %d, want explicit 0 preserved", a.ConfidenceScore)
	}

	a = o.normalizeArticle(map[string]interface{}{"confidenceScore": float64(140)}, 0, nil)
	if a.ConfidenceScore != 100 {
		t.Fatalf("ConfidenceScore = %d, want clamped 100", a.ConfidenceScore)
	}
}

func TestNormalizeArticle_SnippetFallback(t *testing.T) {
	o := New(&scriptedInvoker{})
	a := o.normalizeArticle(map[string]interface{}{"snippet": "from the collector"}, 0, nil)
	if a.Summary != "from the collector" {
		t.Fatalf("Summary = %q, want snippet fallback", a.Summary)
	}
}
