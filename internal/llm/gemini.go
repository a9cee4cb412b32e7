package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/amishk599/paip/internal/config"
)

// DefaultGeminiBaseURL is the public Gemini API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiProvider talks to the Gemini generateContent endpoint.
type geminiProvider struct {
	baseURL   string
	apiKey    string
	model     string
	params    config.GenerationParams
	transport *transport
}

func newGeminiProvider(cfg *config.GeminiConfig, t *transport) *geminiProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &geminiProvider{
		baseURL:   baseURL,
		apiKey:    cfg.Key,
		model:     strings.TrimPrefix(cfg.Model, "models/"),
		params:    cfg.Generation,
		transport: t,
	}
}

func (p *geminiProvider) name() Provider { return ProviderGemini }

func (p *geminiProvider) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
}

func (p *geminiProvider) send(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(buildGeminiRequest(p.params, prompt))
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}
	status, raw, err := p.transport.post(ctx, p.endpoint(), body)
	if err != nil {
		return "", err
	}
	return interpretGeminiResponse(status, raw)
}

// --- request types ---

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64        `json:"temperature,omitempty"`
	TopP            *float64        `json:"topP,omitempty"`
	TopK            *int            `json:"topK,omitempty"`
	MaxOutputTokens *int            `json:"maxOutputTokens,omitempty"`
	ThinkingConfig  *thinkingConfig `json:"thinkingConfig,omitempty"`
}

// thinkingConfig carries exactly one of the two fields.
type thinkingConfig struct {
	ThinkingBudget *int   `json:"thinkingBudget,omitempty"`
	ThinkingLevel  string `json:"thinkingLevel,omitempty"`
}

// --- response types ---

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates,omitempty"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	Error          *geminiError          `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// buildGeminiRequest maps the prompt and the configured generation parameters
// onto the wire request. Unset parameters are left out, and so is
// generationConfig when nothing in it is set.
func buildGeminiRequest(params config.GenerationParams, prompt string) geminiRequest {
	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	gc := generationConfig{
		Temperature:     params.Temperature,
		TopP:            params.TopP,
		TopK:            params.TopK,
		MaxOutputTokens: params.MaxOutputTokens,
	}

	// A named level wins over a numeric budget.
	switch {
	case params.ThinkingLevel != nil:
		gc.ThinkingConfig = &thinkingConfig{ThinkingLevel: *params.ThinkingLevel}
	case params.ThinkingBudget != nil:
		budget := *params.ThinkingBudget
		gc.ThinkingConfig = &thinkingConfig{ThinkingBudget: &budget}
	}

	if gc != (generationConfig{}) {
		req.GenerationConfig = &gc
	}
	return req
}

// interpretGeminiResponse turns a raw status and body into the answer text or
// a typed error. Only the first candidate and its first part are consulted.
func interpretGeminiResponse(status int, raw []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &DeserializationError{Body: string(raw), Err: err}
	}

	if status < 200 || status > 299 {
		if resp.Error != nil {
			return "", &APIError{Code: resp.Error.Code, Message: resp.Error.Message}
		}
		return "", &UnexpectedStatusError{StatusCode: status, Body: string(raw)}
	}

	empty := &EmptyResponseError{Body: string(raw)}
	if resp.PromptFeedback != nil {
		empty.BlockReason = resp.PromptFeedback.BlockReason
	}
	if len(resp.Candidates) == 0 {
		return "", empty
	}
	first := resp.Candidates[0]
	empty.FinishReason = first.FinishReason
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return "", empty
	}
	return first.Content.Parts[0].Text, nil
}
