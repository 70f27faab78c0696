// Package llm wraps the OpenAI-compatible chat completion API for the
// server-side structured-generation tasks (metadata, FAQs). The streaming
// chat relay does not use this client; it forwards raw bytes in
// internal/relay. Buffered generation is free to re-encode requests, so
// it goes through the SDK.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/techiral/go-content-backend/internal/config"
)

// ErrNoCredential is returned before any upstream call when LLM_API_KEY is
// absent. Mirrors relay.ErrMissingCredential for the buffered path.
var ErrNoCredential = errors.New("llm: API key is not configured")

// ErrEmptyCompletion is returned when the provider answers successfully but
// with no choices.
var ErrEmptyCompletion = errors.New("llm: provider returned no choices")

// Completer is the interface the generation service consumes; satisfied by
// *Client and by test fakes.
type Completer interface {
	// Complete runs one buffered chat completion. system may be empty.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client is a thin go-openai wrapper pointed at the configured provider.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	hasKey  bool
}

// New builds a Client from upstream configuration. OpenRouter recommends
// identification headers on every request; go-openai lets us pin them on the
// client config.
func New(cfg config.UpstreamConfig) *Client {
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	return &Client{
		api:     openai.NewClientWithConfig(cc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		hasKey:  cfg.APIKey != "",
	}
}

// Complete runs a single non-streaming chat completion and returns the text
// of the first choice. No retries: a failed generation surfaces to the
// caller, who decides whether to re-invoke.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.hasKey {
		return "", ErrNoCredential
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var msgs []openai.ChatCompletionMessage
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	return c.create(ctx, msgs)
}

// Turn is one prior utterance in a conversation, already normalized to the
// upstream roles ("user" or "assistant"). Callers own any alias mapping.
type Turn struct {
	Role string
	Text string
}

// Chat runs a buffered multi-turn completion: the optional system
// instruction followed by the full turn history.
func (c *Client) Chat(ctx context.Context, system string, turns []Turn) (string, error) {
	if !c.hasKey {
		return "", ErrNoCredential
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, t := range turns {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Text,
		})
	}
	return c.create(ctx, msgs)
}

func (c *Client) create(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
