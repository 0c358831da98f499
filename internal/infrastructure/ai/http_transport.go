package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// HTTPTransport talks to an OpenAI-compatible chat-completions endpoint (OpenRouter by default).
type HTTPTransport struct {
	httpClient      *http.Client
	authKeyEndpoint string
}

// NewHTTPTransport builds a transport. A nil client uses a fresh http.Client;
// per-request timeouts come from ports.ChatRequest.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{httpClient: client, authKeyEndpoint: domain.DefaultAuthKeyEndpoint}
}

// WithAuthKeyEndpoint overrides the key validation URL.
func (t *HTTPTransport) WithAuthKeyEndpoint(url string) *HTTPTransport {
	t.authKeyEndpoint = url
	return t
}

// Send implements ports.ChatTransport.
func (t *HTTPTransport) Send(ctx context.Context, req ports.ChatRequest) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletion, err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+req.APIKey)
	if req.AppName != "" {
		httpReq.Header.Set("X-Title", req.AppName)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", domain.ErrCompletionTimeout, req.Timeout)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrCompletion, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", domain.ErrCompletionTimeout, req.Timeout)
		}
		return "", fmt.Errorf("%w: read body: %v", domain.ErrCompletion, err)
	}

	var decoded chatCompletionResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("%w: %s: %s", domain.ErrCompletion, resp.Status, decoded.Error.Message)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrCompletion, resp.Status)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrCompletion, decodeErr)
	}

	content, ok := decoded.FirstMessage()
	if !ok {
		return "", fmt.Errorf("%w: response has no choices", domain.ErrCompletion)
	}
	return content, nil
}

// ValidateKey implements ports.KeyValidator with an authenticated GET on the key endpoint.
func (t *HTTPTransport) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	if strings.TrimSpace(apiKey) == "" {
		return false, nil
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.authKeyEndpoint, nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("authorization", "Bearer "+apiKey)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("validate API key: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var (
	_ ports.ChatTransport = (*HTTPTransport)(nil)
	_ ports.KeyValidator  = (*HTTPTransport)(nil)
)
