// Package verify implements the single-call verification workflow: build
// prompt, invoke the model once with search grounding, extract whatever
// structure came back, reconcile sources, and normalize into a total
// VerificationResult. Parse problems degrade to field defaults; credential
// and provider problems surface as terminal errors - a verification is an
// explicit user action expecting a definite answer.
package verify

import (
	"context"
	"fmt"
	"strings"

	"truthlens/internal/extract"
	"truthlens/internal/logging"
	"truthlens/internal/prompt"
	"truthlens/internal/types"
)

// Default summaries used when the model response yields nothing usable.
const (
	defaultTextSummary  = "Agent could not verify this claim."
	defaultImageSummary = "Image analysis inconclusive."
)

// Orchestrator runs verification calls against an injected model invoker.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	invoker types.ModelInvoker
}

// New creates a verification orchestrator. A nil invoker means no credential
// was configured; every call will fail fast with types.ErrMissingCredential.
func New(invoker types.ModelInvoker) *Orchestrator {
	return &Orchestrator{invoker: invoker}
}

// VerifyText verifies a text claim. Returns a terminal error on missing
// credential or provider failure; never retries.
func (o *Orchestrator) VerifyText(ctx context.Context, claim string) (*types.VerificationResult, error) {
	p := prompt.MustBuild(prompt.KindVerifyText, prompt.Params{Claim: claim})
	parts := []types.ModelPart{{Text: p.Instruction}}
	return o.run(ctx, p, parts, types.AnalysisText, defaultTextSummary)
}

// VerifyImage verifies an image claim. The decoded image payload is embedded
// as a separate content part alongside the instruction text in the single
// model call; there is no separate vision pre-processing step.
func (o *Orchestrator) VerifyImage(ctx context.Context, image []byte, mimeType, caption string) (*types.VerificationResult, error) {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "image/jpeg"
	}
	p := prompt.MustBuild(prompt.KindVerifyImage, prompt.Params{Caption: caption})
	parts := []types.ModelPart{
		{InlineData: &types.InlineData{MIMEType: mimeType, Data: image}},
		{Text: p.Instruction},
	}
	return o.run(ctx, p, parts, types.AnalysisImage, defaultImageSummary)
}

func (o *Orchestrator) run(ctx context.Context, p prompt.Prompt, parts []types.ModelPart, analysisType types.AnalysisType, defaultSummary string) (*types.VerificationResult, error) {
	if o.invoker == nil {
		return nil, types.ErrMissingCredential
	}

	timer := logging.StartTimer(logging.CategoryVerify, fmt.Sprintf("%s verification", analysisType))
	defer timer.StopWithInfo()

	resp, err := o.invoker.Invoke(ctx, types.ModelRequest{
		System:             p.System,
		Parts:              parts,
		EnableGoogleSearch: p.EnableGoogleSearch,
		ResponseMIMEType:   p.ResponseMIMEType,
	})
	if err != nil {
		logging.VerifyError("%s verification call failed: %v", analysisType, err)
		return nil, fmt.Errorf("verification call failed: %w", err)
	}

	// Parse failure is not fatal: obj stays nil and every field defaults.
	obj, ok := extract.Object(resp.Text)
	if !ok {
		logging.VerifyDebug("%s verification: unparseable response, using defaults", analysisType)
	}

	return normalize(obj, resp.GroundingChunks, analysisType, defaultSummary), nil
}

// normalize builds a total VerificationResult from a loosely-shaped (possibly
// nil) extracted object. Missing fields are replaced by documented defaults;
// a missing-field condition never propagates as an error.
func normalize(obj map[string]interface{}, grounding []types.GroundingChunk, analysisType types.AnalysisType, defaultSummary string) *types.VerificationResult {
	summary := extract.String(obj, "summary")
	if summary == "" {
		summary = defaultSummary
	}

	evidence := extract.Strings(obj, "evidence")
	if evidence == nil {
		evidence = []string{}
	}

	sources := ReconcileSources(modelSources(obj), grounding)

	return &types.VerificationResult{
		Verdict:      types.ParseVerdict(extract.String(obj, "verdict")),
		Confidence:   clampScore(extract.Int(obj, "confidence", 0)),
		Summary:      summary,
		Evidence:     evidence,
		Sources:      sources,
		AnalysisType: analysisType,
	}
}

// modelSources reads the model-asserted source list. The prompt asks for
// {"title", "url"} entries but models drift, so "uri" is accepted too.
func modelSources(obj map[string]interface{}) []types.Source {
	raw := extract.Objects(obj, "sources")
	out := make([]types.Source, 0, len(raw))
	for _, s := range raw {
		uri := extract.String(s, "url")
		if uri == "" {
			uri = extract.String(s, "uri")
		}
		out = append(out, types.Source{Title: extract.String(s, "title"), URI: uri})
	}
	return out
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
