package verify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"truthlens/internal/types"
)

func web(uri, title string) types.GroundingChunk {
	return types.GroundingChunk{Web: &types.GroundingWeb{URI: uri, Title: title}}
}

func TestReconcileSources(t *testing.T) {
	cases := []struct {
		name      string
		model     []types.Source
		grounding []types.GroundingChunk
		want      []types.Source
	}{
		{
			name: "model_sources_precede_grounding",
			model: []types.Source{
				{Title: "AP", URI: "http://ap.example/1"},
			},
			grounding: []types.GroundingChunk{
				web("http://reuters.example/2", "Reuters"),
			},
			want: []types.Source{
				{Title: "AP", URI: "http://ap.example/1"},
				{Title: "Reuters", URI: "http://reuters.example/2"},
			},
		},
		{
			name: "first_seen_uri_wins",
			model: []types.Source{
				{Title: "Model title", URI: "http://same.example"},
			},
			grounding: []types.GroundingChunk{
				web("http://same.example", "Grounding title"),
			},
			want: []types.Source{
				{Title: "Model title", URI: "http://same.example"},
			},
		},
		{
			name: "sentinel_and_empty_links_dropped",
			grounding: []types.GroundingChunk{
				web("#", "No link"),
				web("", "Empty"),
				{Web: nil},
				web("http://ok.example", "OK"),
			},
			want: []types.Source{
				{Title: "OK", URI: "http://ok.example"},
			},
		},
		{
			name: "placeholder_title_for_nameless_grounding",
			grounding: []types.GroundingChunk{
				web("http://anon.example", ""),
			},
			want: []types.Source{
				{Title: "Web Source", URI: "http://anon.example"},
			},
		},
		{
			name:  "both_empty",
			model: nil,
			want:  []types.Source{},
		},
		{
			name: "duplicates_within_each_list",
			model: []types.Source{
				{Title: "A", URI: "u1"},
				{Title: "B", URI: "u1"},
				{Title: "C", URI: "u2"},
			},
			grounding: []types.GroundingChunk{
				web("u2", "D"),
				web("u3", "E"),
				web("u3", "F"),
			},
			want: []types.Source{
				{Title: "A", URI: "u1"},
				{Title: "C", URI: "u2"},
				{Title: "E", URI: "u3"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReconcileSources(tc.model, tc.grounding)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ReconcileSources mismatch (-want +got):\n%s", diff)
			}

			// Pure function: a second call with the same inputs agrees.
			again := ReconcileSources(tc.model, tc.grounding)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("ReconcileSources not deterministic:\n%s", diff)
			}

			// No two entries ever share a URI.
			seen := map[string]bool{}
			for _, s := range got {
				if seen[s.URI] {
					t.Fatalf("duplicate uri %q in %v", s.URI, got)
				}
				seen[s.URI] = true
			}
		})
	}
}
