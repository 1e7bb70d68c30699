package gemini

import "time"

// Config holds configuration for the Gemini client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// DefaultConfig returns sensible defaults for the flash model.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.5-flash",
		Timeout:         2 * time.Minute,
		MaxOutputTokens: 8192,
	}
}

// Content represents content in the request.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part represents a part of the content: text or inline binary data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded binary data (image payloads).
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig represents generation parameters.
// Note: the Gemini REST API accepts snake_case for the response fields.
type GenerationConfig struct {
	Temperature      float64                `json:"temperature,omitempty"`
	MaxOutputTokens  int                    `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string                 `json:"response_mime_type,omitempty"`
	ResponseSchema   map[string]interface{} `json:"response_schema,omitempty"`
}

// Tool represents a tool declaration. Only the Google Search built-in is
// used here; the API rejects built-in tools combined with enforced response
// schemas, which is why the prompt builder keeps the two modes exclusive.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

// GoogleSearch enables search grounding for a call.
type GoogleSearch struct{}

// Request represents the generateContent API request.
type Request struct {
	Contents          []Content        `json:"contents"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig,omitempty"`
	Tools             []Tool           `json:"tools,omitempty"`
}

// ResponsePart represents a part of the response content.
type ResponsePart struct {
	Text string `json:"text,omitempty"`
}

// GroundingWeb is the web citation nested inside a grounding chunk.
type GroundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingChunk is one web source the model consulted while grounding.
type GroundingChunk struct {
	Web *GroundingWeb `json:"web,omitempty"`
}

// GroundingMetadata carries search-grounding citations for a candidate.
// Present only when grounding was enabled for the call.
type GroundingMetadata struct {
	GroundingChunks  []GroundingChunk `json:"groundingChunks"`
	WebSearchQueries []string         `json:"webSearchQueries,omitempty"`
}

// Response represents the generateContent API response.
type Response struct {
	Candidates []struct {
		Content struct {
			Parts []ResponsePart `json:"parts"`
			Role  string         `json:"role"`
		} `json:"content"`
		FinishReason      string             `json:"finishReason"`
		GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}
