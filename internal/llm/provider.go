package llm

import "context"

// Provider names a supported LLM backend.
type Provider string

// ProviderGemini is the Google Gemini API. It is the only provider today.
const ProviderGemini Provider = "gemini"

// provider is implemented once per supported backend. Each implementation owns
// its wire schema; callers only see prompt text in and answer text out.
type provider interface {
	name() Provider
	send(ctx context.Context, prompt string) (string, error)
}
