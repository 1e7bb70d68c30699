package types

import "context"

// ModelPart is one piece of request content: either text or inline binary
// data (an image payload for forensic analysis).
type ModelPart struct {
	Text       string
	InlineData *InlineData
}

// InlineData is a decoded binary payload embedded alongside instruction text.
type InlineData struct {
	MIMEType string
	Data     []byte
}

// ModelRequest describes one model invocation. EnableGoogleSearch and
// ResponseSchema are mutually exclusive on the provider side; the prompt
// builder never produces a request with both set.
type ModelRequest struct {
	System             string
	Parts              []ModelPart
	EnableGoogleSearch bool
	ResponseMIMEType   string
	ResponseSchema     map[string]interface{}
}

// GroundingWeb is the web citation nested inside a grounding chunk.
type GroundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingChunk is one citation the provider consulted while grounding.
// Chunks only appear when search grounding was enabled for the call.
type GroundingChunk struct {
	Web *GroundingWeb `json:"web,omitempty"`
}

// ModelResponse is the completion plus any grounding citations.
type ModelResponse struct {
	Text            string
	GroundingChunks []GroundingChunk
}

// ModelInvoker is the boundary to the LLM provider. The production
// implementation lives in internal/gemini; tests substitute mocks.
type ModelInvoker interface {
	Invoke(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
