package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// Client resolves a query to model text: cache first, then the chat endpoint.
type Client struct {
	Config    domain.Config
	APIKey    string
	Cache     ports.ResponseCache
	Transport ports.ChatTransport
	Prompts   ports.PromptRenderer
	Logger    ports.Logger
}

// Complete implements ports.Completer.
// Script requests always reach the network and are never cached.
func (c *Client) Complete(ctx context.Context, query, shell string, isScript bool) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", domain.ErrEmptyQuery
	}
	if c.Cache == nil || c.Transport == nil || c.Prompts == nil || c.Logger == nil {
		return "", errors.New("completion.Client dependencies not satisfied")
	}

	model := c.Config.Model
	if !isScript {
		cached, ok, err := c.Cache.Get(ctx, model, query, c.Config.GetCacheMaxAge())
		if err != nil {
			return "", err
		}
		if ok {
			c.Logger.Debug("cache hit", map[string]interface{}{"model": model})
			return cached, nil
		}
	}

	if c.APIKey == "" {
		return "", domain.ErrMissingAPIKey
	}

	systemPrompt, err := c.Prompts.SystemPrompt(shell, isScript)
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	c.Logger.Debug("sending completion", map[string]interface{}{
		"model":  model,
		"script": isScript,
	})
	text, err := c.Transport.Send(ctx, ports.ChatRequest{
		Endpoint: c.Config.GetEndpoint(),
		APIKey:   c.APIKey,
		AppName:  c.Config.GetAppName(),
		Model:    model,
		Messages: []ports.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		Temperature: c.Config.Temperature,
		MaxTokens:   c.Config.MaxTokens,
		Timeout:     c.Config.GetTimeout(),
	})
	if err != nil {
		return "", err
	}

	if !isScript {
		if err := c.Cache.Put(ctx, model, query, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

var _ ports.Completer = (*Client)(nil)
