package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"swing-coach-lab/internal/domain"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-4o-mini"
)

// OpenAIProvider generates commentary through an OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider with the default endpoint and model.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		model:  defaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Commentary asks the model for a one-sentence coaching comment built from
// the swing's metrics and category.
func (p *OpenAIProvider) Commentary(ctx context.Context, result domain.SwingResult) (string, error) {
	prompt := fmt.Sprintf(
		"You are a tennis coach watching a student's forehand. "+
			"Swing #%d scored %d/100. Shoulder turn %.0f degrees, arm speed %.0f/100, "+
			"contact %.0f cm from the body, rhythm %.0f/100. "+
			"The main point to address: %s. "+
			"Reply with one short, encouraging spoken-style sentence.",
		result.SwingNumber,
		result.Feedback.Score,
		result.Metrics.MaxShoulderTurn,
		result.Metrics.PeakArmSpeed,
		result.Metrics.Contact.DistanceFromCore,
		result.Metrics.SwingRhythm,
		result.Feedback.Message,
	)

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: 60,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("commentary request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response (status %d)", resp.StatusCode)
	}

	return parsed.Choices[0].Message.Content, nil
}
