package model

// MIME types accepted anywhere in the pipeline.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// PromptType selects the stylistic variant of description the workflow produces.
type PromptType string

const (
	PromptMidjourney      PromptType = "midjourney"
	PromptStableDiffusion PromptType = "stableDiffusion"
	PromptFlux            PromptType = "flux"
	PromptNormal          PromptType = "normal"
)

// Valid reports whether t is one of the four supported prompt styles.
func (t PromptType) Valid() bool {
	switch t {
	case PromptMidjourney, PromptStableDiffusion, PromptFlux, PromptNormal:
		return true
	}
	return false
}

// ImagePayload is a canonical image: bytes within the budget and of an
// accepted MIME type, ready to submit to the workflow. It lives for one
// request only and is never persisted.
type ImagePayload struct {
	Data     []byte
	MIME     string
	Filename string
}

// Size returns the payload length in bytes.
func (p ImagePayload) Size() int {
	return len(p.Data)
}

// GenerationRequest carries everything needed for one prompt generation.
type GenerationRequest struct {
	Image      ImagePayload
	PromptType PromptType
	UserQuery  string
}

// GenerationResult is the terminal value returned to the caller.
type GenerationResult struct {
	Success bool   `json:"success"`
	Prompt  string `json:"prompt,omitempty"`
	Error   string `json:"error,omitempty"`
}
