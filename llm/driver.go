// Package llm adapts gollm-backed language-model providers to the runloop
// Model capability: given a conversation and a combined action schema, it
// returns one structured action as raw JSON.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/teilomillet/gollm"

	"github.com/meridianlabs/turnpike/runloop"
)

// Driver implements runloop.Model on top of a gollm provider.
type Driver struct {
	provider string
	model    string
	llm      gollm.LLM
	docs     []runloop.ActionDoc
	retry    RetryPolicy
	log      zerolog.Logger
}

// Option configures a Driver.
type Option func(*config)

type config struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	retry       RetryPolicy
	logger      *zerolog.Logger
	docs        []runloop.ActionDoc
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the provider API key. When empty, gollm reads it from the
// provider's environment variable.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithMaxTokens sets the response token budget.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *config) { c.temperature = t }
}

// WithRetryPolicy overrides the default transport retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *config) { c.retry = p }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.logger = &log }
}

// WithActionDocs supplies the registered action summaries listed in the
// system prompt alongside the schema.
func WithActionDocs(docs []runloop.ActionDoc) Option {
	return func(c *config) { c.docs = docs }
}

// WithGollmOptions appends extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) Option {
	return func(c *config) { c.extraOpts = append(c.extraOpts, opts...) }
}

// Default models per provider when none is configured.
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-5-20250514",
}

// New creates a Driver for the given provider.
func New(provider string, opts ...Option) (*Driver, error) {
	cfg := &config{
		maxTokens:   4096,
		temperature: 0.0,
		retry:       DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		if m, ok := defaultModels[provider]; ok {
			model = m
		} else {
			model = defaultModels["openai"]
		}
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retries are handled by the Driver's policy
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	instance, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gollm LLM for provider %s: %w", provider, err)
	}

	log := zerolog.Nop()
	if cfg.logger != nil {
		log = *cfg.logger
	}

	return &Driver{
		provider: provider,
		model:    model,
		llm:      instance,
		docs:     cfg.docs,
		retry:    cfg.retry,
		log:      log.With().Str("provider", provider).Str("model", model).Logger(),
	}, nil
}

// NewFromLLM wraps an existing gollm.LLM instance.
func NewFromLLM(provider string, instance gollm.LLM, docs []runloop.ActionDoc) *Driver {
	return &Driver{
		provider: provider,
		llm:      instance,
		docs:     docs,
		retry:    DefaultRetryPolicy(),
		log:      zerolog.Nop(),
	}
}

// Complete implements runloop.Model. It renders the conversation into a
// prompt, asks the provider (streaming when supported), and extracts the
// single action object from the response text.
func (d *Driver) Complete(ctx context.Context, conv runloop.Conversation, schema json.RawMessage, onChunk func(chunk string)) (json.RawMessage, error) {
	system := BuildInstructions(d.docs, schema)
	prompt := gollm.NewPrompt(
		renderConversation(conv),
		gollm.WithSystemPrompt(system, gollm.CacheTypeEphemeral),
	)

	text, err := Retry(ctx, d.retry, func(ctx context.Context) (string, error) {
		return d.generate(ctx, prompt, onChunk)
	})
	if err != nil {
		d.log.Error().Err(err).Msg("model request failed")
		return nil, err
	}

	raw, err := ExtractAction(text)
	if err != nil {
		d.log.Error().Err(err).Str("text", text).Msg("model response carried no action")
		return nil, err
	}
	return raw, nil
}

// generate performs one provider round trip, streaming when the provider
// supports it.
func (d *Driver) generate(ctx context.Context, prompt *gollm.Prompt, onChunk func(chunk string)) (string, error) {
	if !d.llm.SupportsStreaming() || onChunk == nil {
		text, err := d.llm.Generate(ctx, prompt)
		if err != nil {
			return "", translateError(d.provider, err)
		}
		if onChunk != nil && text != "" {
			onChunk(text)
		}
		return text, nil
	}

	stream, err := d.llm.Stream(ctx, prompt)
	if err != nil {
		return "", translateError(d.provider, err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		token, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", translateError(d.provider, err)
		}
		if token == nil {
			continue
		}
		onChunk(token.Text)
		full.WriteString(token.Text)
	}

	return full.String(), nil
}
