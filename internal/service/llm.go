package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pageza/foodflow/backend/config"
)

const (
	llmMaxTokens   = 2000
	llmTemperature = 0.7
	llmTimeout     = 30 * time.Second
)

// ErrLLMNotConfigured is returned when no API key is set.
var ErrLLMNotConfigured = errors.New("GROQ_API_KEY is not configured")

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents an OpenAI-compatible chat completion request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatCompleter returns the assistant content for a conversation.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// LLMService talks to the Groq chat completions API.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

var _ ChatCompleter = (*LLMService)(nil)

func NewLLMService(cfg *config.Config) *LLMService {
	return &LLMService{
		apiKey: cfg.GroqAPIKey,
		apiURL: cfg.GroqAPIURL,
		model:  cfg.GroqModel,
		client: &http.Client{Timeout: llmTimeout},
	}
}

func (s *LLMService) Complete(ctx context.Context, messages []Message) (string, error) {
	if s.apiKey == "" {
		return "", ErrLLMNotConfigured
	}

	jsonData, err := json.Marshal(Request{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   llmMaxTokens,
		Temperature: llmTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMService] API request failed with status %d: %.500s", resp.StatusCode, body)
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}
