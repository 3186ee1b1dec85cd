package extraction

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the public Messages API endpoint
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultAPIVersion is sent as the anthropic-version header
	DefaultAPIVersion = "2023-06-01"
	// maxErrorBodyLen bounds how much of an error body ends up in a processing error
	maxErrorBodyLen = 512
)

// Errors for extraction configuration
var (
	ErrMissingAPIKey = errors.New("extraction: api key is required")
	ErrMissingModel  = errors.New("extraction: model is required")
)

// Config holds the settings of the Messages API client
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	APIVersion string
	// MaxTokens caps the model's answer
	MaxTokens int
	// Timeout bounds one HTTP call; the processing timeout still applies
	Timeout time.Duration
	// MaxResponseLen caps how many response bytes are read
	MaxResponseLen int64
}

// Validate checks the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return ErrMissingModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2048
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.MaxResponseLen <= 0 {
		c.MaxResponseLen = 1 << 20
	}
	return nil
}
