// Package prompt builds role-specific instructions and call-mode
// configuration for the model. It owns the provider constraint that search
// grounding and enforced structured output are mutually exclusive for a
// single call: grounded kinds rely on a strict raw-JSON textual directive
// instead of an enforced response schema.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects one of the four role-specific prompts.
type Kind string

const (
	KindCollectNews     Kind = "collect-news"
	KindAnalyzeAndScore Kind = "analyze-and-score"
	KindVerifyText      Kind = "verify-text"
	KindVerifyImage     Kind = "verify-image"
)

// MaxAnalysisBatch caps the candidate batch handed to the analyst call.
// Truncation, not rejection: excess candidates are silently dropped.
const MaxAnalysisBatch = 6

// Params carries the kind-specific inputs.
type Params struct {
	Topics     []string                 // collect-news
	Candidates []map[string]interface{} // analyze-and-score
	Claim      string                   // verify-text
	Caption    string                   // verify-image, optional user context
}

// Prompt is the built instruction plus the call-mode configuration.
// EnableGoogleSearch and ResponseMIMEType are never both set.
type Prompt struct {
	System             string
	Instruction        string
	EnableGoogleSearch bool
	ResponseMIMEType   string // "application/json" for enforced JSON mode
}

const collectorSystem = `ROLE: News Collector Agent.
OBJECTIVE: Fetch real-time, trending news data.
METHOD:
1. Use the search tool to find the top 6 most significant news stories right now for the requested topics.
2. Filter for reputable mainstream sources (e.g., AP, Reuters, BBC, NYT) but also include 1-2 trending viral stories worth verifying.
3. Return a raw JSON list: [{ "title": "...", "url": "...", "source": "...", "snippet": "...", "publishedAt": "YYYY-MM-DD" }].
CRITICAL: Return ONLY a valid JSON array. No markdown code blocks, no commentary.`

const analystSystem = `You are the TruthLens Multi-Agent Analysis Pipeline.
You process a list of raw news items through three agent personas sequentially.

AGENT 1: SOURCE CREDIBILITY AGENT
- TASK: Evaluate the publisher's historical reliability.
- CRITERIA: Editorial standards, ownership transparency, history of retractions.
- OUTPUT: sourceScore (0-100) and brief assessment notes.

AGENT 2: CONTENT ANALYSIS AGENT
- TASK: Analyze the headline and snippet for sensationalism, bias, and clickbait.
- CRITERIA: Neutral tone vs. emotional manipulation, logical fallacies, lack of attribution.
- OUTPUT: contentScore (0-100, 100 = neutral) and analysis notes.

AGENT 3: VERDICT AGENT
- TASK: Synthesize the two scores into a final classification.
- RULE: high source + high content = REAL; low source OR low content = SUSPICIOUS; proven falsehood = FAKE.
- OUTPUT: verdict, confidenceScore, evidence list.

OUTPUT FORMAT (JSON ARRAY ONLY):
[
  {
    "title": "...",
    "source": "...",
    "url": "...",
    "publishedAt": "ISO date",
    "summary": "...",
    "agentAnalysis": {
      "sourceScore": 95,
      "sourceNotes": "...",
      "contentScore": 88,
      "contentNotes": "...",
      "evidence": ["..."]
    },
    "verdict": "REAL",
    "confidenceScore": 92
  }
]`

const verifierSystem = `You are TruthLens, an autonomous fact-verification agent.
Your mission is to objectively verify claims, debunk misinformation, and provide evidence-based verdicts.

OPERATIONAL PROTOCOL (the S.I.F.T. method):
1. STOP: Do not assume the claim is true. Pause and assess the intent.
2. INVESTIGATE: Use Google Search to find the original source of the claim.
3. FIND: Look for coverage from trusted, independent news agencies and fact-checking organizations (e.g., Reuters, AP, Snopes).
4. TRACE: Verify the date, context, and media integrity.

OUTPUT RULES:
- Return ONLY valid RAW JSON.
- CRITICAL: Escape all double quotes within strings.
- Do not output markdown code blocks.`

const imageAnalystSystem = `You are the TruthLens Forensic Image Analyst Agent.
Your task is to detect manipulation, deepfakes, and out-of-context media usage.

ANALYSIS FRAMEWORK:
1. VISUAL FORENSICS: Inspect for lighting inconsistencies, artifacts, warped geometries (hands/eyes), and pixelation patterns typical of AI generation.
2. REVERSE SEARCH: Use grounding to check whether this image has appeared previously on the web.
3. CONTEXT MATCHING: Does the visual content match the user's claim or the provided text context?

OUTPUT RULES:
- Return ONLY valid RAW JSON.
- CRITICAL: Escape all double quotes within strings.
- Do not output markdown code blocks.`

const verificationOutputShape = `OUTPUT FORMAT (raw JSON only):
{
  "verdict": "REAL" | "SUSPICIOUS" | "FAKE",
  "confidence": 0-100,
  "summary": "concise summary of the investigation",
  "evidence": ["evidence point 1", "evidence point 2"],
  "sources": [{"title": "Source Name", "url": "http..."}]
}`

// Build produces the prompt for the given kind. The returned Prompt never
// requests search grounding and enforced JSON output for the same call.
func Build(kind Kind, p Params) (Prompt, error) {
	switch kind {
	case KindCollectNews:
		return buildCollect(p), nil
	case KindAnalyzeAndScore:
		return buildAnalyze(p)
	case KindVerifyText:
		return buildVerifyText(p), nil
	case KindVerifyImage:
		return buildVerifyImage(p), nil
	default:
		return Prompt{}, fmt.Errorf("unknown prompt kind %q", kind)
	}
}

// MustBuild is Build for kinds that cannot fail (everything except
// analyze-and-score, whose candidate batch encoding can error).
func MustBuild(kind Kind, p Params) Prompt {
	out, err := Build(kind, p)
	if err != nil {
		panic(err)
	}
	return out
}

func buildCollect(p Params) Prompt {
	var b strings.Builder
	b.WriteString("TOPICS: ")
	b.WriteString(strings.Join(p.Topics, ", "))
	b.WriteString("\n\nTASK: Search for the latest news on these topics. Return a raw JSON list of items found.\n")
	b.WriteString(`Schema: [{ "title": "string", "url": "string", "source": "string", "snippet": "string", "publishedAt": "string (YYYY-MM-DD)" }]` + "\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array.")
	return Prompt{
		System:             collectorSystem,
		Instruction:        b.String(),
		EnableGoogleSearch: true,
	}
}

func buildAnalyze(p Params) (Prompt, error) {
	batch := p.Candidates
	if len(batch) > MaxAnalysisBatch {
		batch = batch[:MaxAnalysisBatch]
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to encode candidate batch: %w", err)
	}

	var b strings.Builder
	b.WriteString("SOURCE DATA (from the collector agent):\n")
	b.Write(data)
	b.WriteString("\n\nINSTRUCTIONS:\nRun the Source Credibility Agent, Content Analysis Agent, and Verdict Agent on the data above.\nFollow the system instructions strictly.")

	// No search here, so enforced JSON mode is safe.
	return Prompt{
		System:           analystSystem,
		Instruction:      b.String(),
		ResponseMIMEType: "application/json",
	}, nil
}

func buildVerifyText(p Params) Prompt {
	var b strings.Builder
	b.WriteString("AGENT TASK: Verify the following claim.\n")
	fmt.Fprintf(&b, "INPUT: %q\n\n", p.Claim)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Execute the S.I.F.T. methodology (Stop, Investigate, Find, Trace).\n")
	b.WriteString("2. Cross-reference the claim with Google Search results.\n")
	b.WriteString("3. Determine the verdict based on the weight of evidence.\n\n")
	b.WriteString(verificationOutputShape)
	return Prompt{
		System:             verifierSystem,
		Instruction:        b.String(),
		EnableGoogleSearch: true,
	}
}

func buildVerifyImage(p Params) Prompt {
	var b strings.Builder
	if caption := strings.TrimSpace(p.Caption); caption != "" {
		fmt.Fprintf(&b, "User context: %q.\n", caption)
	}
	b.WriteString("AGENT TASK: Perform forensic analysis on the attached image.\n")
	b.WriteString("1. Scan for AI generation artifacts (hands, text rendering, textures).\n")
	b.WriteString("2. Check for metadata inconsistencies or editing signs.\n")
	b.WriteString("3. Cross-reference with visual search to find the original context.\n\n")
	b.WriteString(verificationOutputShape)
	return Prompt{
		System:             imageAnalystSystem,
		Instruction:        b.String(),
		EnableGoogleSearch: true,
	}
}
