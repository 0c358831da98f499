package ai

import (
	"strings"

	"github.com/doeshing/iop/internal/ports"
)

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []ports.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ports.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c chatCompletionResponse) FirstMessage() (string, bool) {
	if len(c.Choices) == 0 {
		return "", false
	}
	return strings.TrimSpace(c.Choices[0].Message.Content), true
}
