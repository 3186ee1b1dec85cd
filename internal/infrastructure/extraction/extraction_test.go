package extraction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	documentapp "github.com/keystone/backend/internal/application/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, handler http.HandlerFunc) *AnthropicExtractor {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	e, err := NewAnthropicExtractor(Config{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		Timeout:        5 * time.Second,
		MaxResponseLen: 64 * 1024,
	})
	require.NoError(t, err)
	return e
}

func answer(text string) string {
	resp := map[string]any{
		"model":       "test-model-2026",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"usage":       map[string]any{"input_tokens": 1200, "output_tokens": 80},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestAnthropicExtractor_Extract(t *testing.T) {
	t.Run("sends the file and parses fields", func(t *testing.T) {
		var captured messagesRequest
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, DefaultAPIVersion, r.Header.Get("anthropic-version"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = io.WriteString(w, answer("Here you go:\n```json\n"+
				`{"fields": {"tenant_name": "Ada Lovelace", "monthly_rent": 1850, "deposit": 1850.5, "lease_end": null}, "summary": "One year lease."}`+
				"\n```"))
		})

		res, err := e.Extract(context.Background(), documentapp.ExtractionInput{
			FileName:    "lease.pdf",
			ContentType: "application/pdf",
			Category:    "lease",
			Content:     []byte("%PDF-1.7"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Ada Lovelace", res.Fields["tenant_name"])
		assert.Equal(t, int64(1850), res.Fields["monthly_rent"])
		assert.Equal(t, 1850.5, res.Fields["deposit"])
		assert.Nil(t, res.Fields["lease_end"])
		assert.Equal(t, "One year lease.", res.Summary)
		assert.Equal(t, "test-model-2026", res.Model)
		assert.Equal(t, 1200, res.InputTokens)

		require.Len(t, captured.Messages, 1)
		blocks := captured.Messages[0].Content
		require.Len(t, blocks, 2)
		assert.Equal(t, "document", blocks[0].Type)
		assert.Equal(t, "base64", blocks[0].Source.Type)
		assert.Equal(t, "JVBERi0xLjc=", blocks[0].Source.Data)
		assert.Contains(t, blocks[1].Text, "tenant_name, monthly_rent, lease_start, lease_end, deposit")
	})

	t.Run("images use image blocks", func(t *testing.T) {
		var captured messagesRequest
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = io.WriteString(w, answer(`{"fields": {}, "summary": ""}`))
		})
		_, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "image/png", Category: "receipt", Content: []byte{0x89}})
		require.NoError(t, err)
		assert.Equal(t, "image", captured.Messages[0].Content[0].Type)
		assert.Contains(t, captured.Messages[0].Content[1].Text, "key facts")
	})

	t.Run("answer without the envelope becomes fields", func(t *testing.T) {
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, answer(`{"insurer": "Acme Mutual", "summary": "Home policy"}`))
		})
		res, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "text/plain", Category: "insurance", Content: []byte("policy")})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"insurer": "Acme Mutual"}, res.Fields)
		assert.Equal(t, "Home policy", res.Summary)
	})

	t.Run("non-2xx includes status and truncated body", func(t *testing.T) {
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error"}}`+strings.Repeat("x", 2000))
		})
		_, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "application/pdf", Content: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 429")
		assert.Contains(t, err.Error(), "rate_limit_error")
		assert.Less(t, len(err.Error()), 700)
	})

	t.Run("no JSON in the answer", func(t *testing.T) {
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, answer("I cannot read this file."))
		})
		_, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "application/pdf", Content: []byte("x")})
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("oversized response is rejected", func(t *testing.T) {
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, answer(`{"fields":{"blob":"`+strings.Repeat("a", 70*1024)+`"}}`))
		})
		_, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "application/pdf", Content: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("unsupported content type never calls the API", func(t *testing.T) {
		called := false
		e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		_, err := e.Extract(context.Background(), documentapp.ExtractionInput{ContentType: "image/tiff"})
		assert.ErrorIs(t, err, ErrUnsupportedContent)
		assert.False(t, called)
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Config{Model: "m"}).Validate(), ErrMissingAPIKey)
	assert.ErrorIs(t, (&Config{APIKey: "k"}).Validate(), ErrMissingModel)

	c := Config{APIKey: "k", Model: "m"}
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 2048, c.MaxTokens)
}

func TestFirstJSONObject(t *testing.T) {
	obj, err := firstJSONObject(`noise {not json} then {"a": {"b": [1, 2.5]}} trailing`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": []any{int64(1), 2.5}}}, obj)
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody([]byte("  short\n")))

	// a 3-byte rune straddles the limit
	body := []byte(strings.Repeat("a", maxErrorBodyLen-1) + "€€")
	got := truncateBody(body)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxErrorBodyLen-1)+"...", got)
}

func TestStubExtractor(t *testing.T) {
	res, err := NewStubExtractor().Extract(context.Background(), documentapp.ExtractionInput{
		FileName: "tax.pdf",
		Category: "tax",
		Content:  []byte("abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, StubModel, res.Model)
	assert.Contains(t, res.Fields, "tax_year")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", res.Fields["sha256"])
}
