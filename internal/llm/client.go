package llm

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/amishk599/paip/internal/config"
)

// Client sends prompts to the configured LLM provider. Calls on one Client are
// expected to be sequential.
type Client struct {
	provider provider
	model    string
}

// New validates the provider settings in cfg and returns a Client. All
// configuration problems are reported here as *ConfigError, never later.
// When verbose is set, every outgoing request is logged before it is sent.
func New(cfg *config.Config, verbose bool, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, &ConfigError{Reason: "configuration is required"}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch Provider(cfg.Provider) {
	case ProviderGemini:
		g := cfg.Gemini
		if g == nil {
			return nil, &ConfigError{Provider: cfg.Provider, Reason: "configuration block not found for provider"}
		}
		if g.Key == "" || g.Key == config.PlaceholderKey {
			return nil, &ConfigError{Provider: cfg.Provider, Reason: "API key is not configured for provider"}
		}
		t := newTransport(cfg.Timeout, logger, verbose)
		return &Client{
			provider: newGeminiProvider(g, t),
			model:    g.Model,
		}, nil
	default:
		return nil, &ConfigError{Provider: cfg.Provider, Reason: "unsupported LLM provider"}
	}
}

// Send sends prompt to the provider and returns the first answer with trailing
// whitespace removed.
func (c *Client) Send(ctx context.Context, prompt string) (string, error) {
	text, err := c.provider.send(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimRightFunc(text, unicode.IsSpace), nil
}

// Provider returns the provider this client talks to.
func (c *Client) Provider() Provider { return c.provider.name() }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }
