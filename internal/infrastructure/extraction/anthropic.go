// Package extraction turns uploaded documents into structured fields with an
// Anthropic-compatible Messages API.
package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	documentapp "github.com/keystone/backend/internal/application/document"
	"github.com/keystone/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnsupportedContent is returned for content types the API cannot read
var ErrUnsupportedContent = errors.New("extraction: content type not supported")

// AnthropicExtractor implements document.Extractor over the Messages API
type AnthropicExtractor struct {
	config     Config
	httpClient *http.Client
}

// NewAnthropicExtractor creates an extractor with the given configuration
func NewAnthropicExtractor(config Config) (*AnthropicExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &AnthropicExtractor{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Extract sends the file with a category-specific instruction and parses the
// first JSON object of the answer
func (a *AnthropicExtractor) Extract(ctx context.Context, in documentapp.ExtractionInput) (_ *documentapp.ExtractionResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "extraction.messages",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrCategory, in.Category),
		telemetry.WithAttribute(telemetry.SpanAttrContentType, in.ContentType),
		telemetry.WithAttribute(telemetry.SpanAttrSizeBytes, len(in.Content)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	block, err := fileBlock(in)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
		System:    systemPrompt,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				block,
				{Type: "text", Text: instructionFor(in.Category, in.FileName)},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: failed to marshal request: %w", err)
	}

	body, err := a.do(ctx, payload)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResponseBytes, len(body))

	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("extraction: failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	obj, err := firstJSONObject(text.String())
	if err != nil {
		if resp.StopReason == "max_tokens" {
			return nil, fmt.Errorf("%w (answer truncated at max_tokens)", err)
		}
		return nil, err
	}
	fields, summary := splitAnswer(obj)

	model := resp.Model
	if model == "" {
		model = a.config.Model
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrModel, model)
	return &documentapp.ExtractionResult{
		Fields:       fields,
		Summary:      summary,
		Model:        model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

func (a *AnthropicExtractor) do(ctx context.Context, payload []byte) ([]byte, error) {
	url := strings.TrimRight(a.config.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("extraction: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", a.config.APIKey)
	req.Header.Set("anthropic-version", a.config.APIVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.config.MaxResponseLen+1))
	if err != nil {
		return nil, fmt.Errorf("extraction: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("extraction: HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}
	if int64(len(body)) > a.config.MaxResponseLen {
		return nil, fmt.Errorf("extraction: response exceeds %d bytes", a.config.MaxResponseLen)
	}
	return body, nil
}

// fileBlock wraps the file in the block type the API expects for it
func fileBlock(in documentapp.ExtractionInput) (contentBlock, error) {
	switch in.ContentType {
	case "application/pdf":
		return contentBlock{Type: "document", Source: &blockSource{
			Type:      "base64",
			MediaType: in.ContentType,
			Data:      base64.StdEncoding.EncodeToString(in.Content),
		}}, nil
	case "image/png", "image/jpeg", "image/webp", "image/gif":
		return contentBlock{Type: "image", Source: &blockSource{
			Type:      "base64",
			MediaType: in.ContentType,
			Data:      base64.StdEncoding.EncodeToString(in.Content),
		}}, nil
	case "text/plain":
		return contentBlock{Type: "document", Source: &blockSource{
			Type:      "text",
			MediaType: "text/plain",
			Data:      string(in.Content),
		}}, nil
	}
	return contentBlock{}, fmt.Errorf("%w: %s", ErrUnsupportedContent, in.ContentType)
}
