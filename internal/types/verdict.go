package types

import "strings"

// VerdictType is the closed classification assigned to a claim or article.
type VerdictType string

const (
	VerdictReal       VerdictType = "REAL"
	VerdictSuspicious VerdictType = "SUSPICIOUS"
	VerdictFake       VerdictType = "FAKE"
	VerdictUnverified VerdictType = "UNVERIFIED"
)

// ParseVerdict maps a model-asserted verdict string onto the closed set.
// Anything unrecognized resolves to VerdictUnverified - model output is
// never trusted to stay inside the enum.
func ParseVerdict(s string) VerdictType {
	switch VerdictType(strings.ToUpper(strings.TrimSpace(s))) {
	case VerdictReal:
		return VerdictReal
	case VerdictSuspicious:
		return VerdictSuspicious
	case VerdictFake:
		return VerdictFake
	default:
		return VerdictUnverified
	}
}

// AnalysisType distinguishes text-claim from image-claim verification.
type AnalysisType string

const (
	AnalysisText  AnalysisType = "TEXT"
	AnalysisImage AnalysisType = "IMAGE"
)
