package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/example/frasebot/pkg/models"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-3.5-turbo"

	tutorSystemPrompt = "You are a friendly Portuguese tutor for an English-speaking learner. " +
		"Answer briefly, correct mistakes gently, and prefer simple Brazilian Portuguese examples " +
		"with English explanations."
)

// Tutor represents a client for a chat-completions API used for the
// AI tutor feature. Requests are made once; failures are surfaced to
// the caller without retries.
type Tutor struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// New creates a new tutor client from the environment
func New() (*Tutor, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Tutor{
		apiKey:      apiKey,
		apiURL:      defaultAPIURL,
		model:       model,
		maxTokens:   300,
		temperature: 0.7,
		client:      &http.Client{},
	}, nil
}

// Message represents a message in the chat-completions conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat-completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat-completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Reply answers one learner message in an ongoing tutor conversation.
// Prior history is replayed so the tutor keeps context.
func (t *Tutor) Reply(ctx context.Context, history []models.ChatMessage, userMessage string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: tutorSystemPrompt})
	for _, msg := range history {
		messages = append(messages, Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, Message{Role: "user", Content: userMessage})

	return t.complete(ctx, messages, t.temperature, t.maxTokens)
}

// ExplainMistake asks the tutor why a given answer missed the expected
// phrase, for feedback after a wrong quiz answer.
func (t *Tutor) ExplainMistake(ctx context.Context, phrase models.Phrase, given string) (string, error) {
	prompt := fmt.Sprintf(
		"The learner was asked to translate %q into Portuguese. The expected answer is %q, "+
			"but they wrote %q. In two or three short sentences, explain the main difference "+
			"and give one tip to remember the correct phrase.",
		phrase.SourceText, phrase.TargetText, given,
	)

	messages := []Message{
		{Role: "system", Content: tutorSystemPrompt},
		{Role: "user", Content: prompt},
	}

	// Lower temperature for factual feedback
	return t.complete(ctx, messages, 0.3, t.maxTokens)
}

// complete performs one chat-completions call
func (t *Tutor) complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	request := ChatRequest{
		Model:       t.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
