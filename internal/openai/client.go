// Package openai implements the vision extraction client used to pull
// invoice fields out of an uploaded document image.
package openai

import (
	"net/http"
	"time"
)

// OpenAIError represents an error that occurred during OpenAI API interaction
type OpenAIError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *OpenAIError) Error() string {
	if e.Err == nil {
		return "openai error: " + e.Op
	}
	return "openai error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *OpenAIError) Unwrap() error {
	return e.Err
}

// Client represents a client for the OpenAI chat completions API
type Client struct {
	apiKey     string
	apiURL     string
	modelID    string
	maxTokens  int
	httpClient *http.Client
}

// Config holds configuration for the OpenAI client
type Config struct {
	APIKey    string
	ModelID   string
	Timeout   time.Duration
	MaxTokens int
}

// DefaultConfig returns a default configuration for the OpenAI client
func DefaultConfig() *Config {
	return &Config{
		ModelID:   "gpt-4o",
		Timeout:   60 * time.Second,
		MaxTokens: 400,
	}
}

// NewClient creates a new OpenAI client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ModelID == "" {
		config.ModelID = "gpt-4o"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 400
	}

	return &Client{
		apiKey:    config.APIKey,
		apiURL:    "https://api.openai.com/v1/chat/completions",
		modelID:   config.ModelID,
		maxTokens: config.MaxTokens,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
