package verify

import "truthlens/internal/types"

// groundingPlaceholderTitle is substituted when the provider omits a title
// on a grounding citation.
const groundingPlaceholderTitle = "Web Source"

// noLinkSentinel marks a grounding entry that resolved to no usable link.
const noLinkSentinel = "#"

// ReconcileSources merges model-asserted sources with provider grounding
// citations into one de-duplicated list. Model sources come first so the
// model's own claimed display order takes priority; grounding fills gaps.
// De-duplication is by URI, first occurrence wins. Pure function.
func ReconcileSources(modelSources []types.Source, grounding []types.GroundingChunk) []types.Source {
	merged := make([]types.Source, 0, len(modelSources)+len(grounding))
	merged = append(merged, modelSources...)

	for _, chunk := range grounding {
		if chunk.Web == nil {
			continue
		}
		uri := chunk.Web.URI
		if uri == "" || uri == noLinkSentinel {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = groundingPlaceholderTitle
		}
		merged = append(merged, types.Source{Title: title, URI: uri})
	}

	seen := make(map[string]struct{}, len(merged))
	out := make([]types.Source, 0, len(merged))
	for _, s := range merged {
		if _, dup := seen[s.URI]; dup {
			continue
		}
		seen[s.URI] = struct{}{}
		out = append(out, s)
	}
	return out
}
