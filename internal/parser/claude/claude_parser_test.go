package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"phonebills/internal/config"
	"phonebills/internal/parser"
	claude "phonebills/internal/parser/claude"
)

func newTestParser(serverURL string) *claude.Parser {
	cfg := &config.ParserConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewParserWithEndpoint(cfg, serverURL)
}

func textResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
}

func TestClaudeParser_ParseItems_Success(t *testing.T) {
	responseBody := textResponse(`[{"phoneNumber":"604413020","serviceName":"Next internet 5 GB","amountNoDph":382.68,"amountNonDph":80,"amountWithDph":543.04}]`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, float64(4096), reqBody["max_tokens"])
		assert.Contains(t, reqBody["system"], "T-Mobile")

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		assert.Contains(t, msg["content"], "text faktury")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	items, err := p.ParseItems(context.Background(), "text faktury")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "604413020", items[0].Identifier)
	assert.Equal(t, "Next internet 5 GB", items[0].Label)
	assert.InDelta(t, 382.68, items[0].AmountWithoutVAT, 0.001)
	assert.InDelta(t, 80, items[0].AmountVATExempt, 0.001)
	assert.InDelta(t, 543.04, items[0].AmountWithVAT, 0.001)
}

func TestClaudeParser_ParseItems_ArrayWrappedInProse(t *testing.T) {
	responseBody := textResponse("Zde je výsledek:\n```json\n[{\"phoneNumber\":\"604413020\",\"serviceName\":\"Mobil [firemní]\",\"amountNoDph\":100,\"amountNonDph\":0,\"amountWithDph\":121}]\n```\nHotovo.")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	items, err := p.ParseItems(context.Background(), "text")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	// Brackets inside string literals must not break array extraction.
	assert.Equal(t, "Mobil [firemní]", items[0].Label)
}

func TestClaudeParser_ParseItems_EmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse("[]"))
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	items, err := p.ParseItems(context.Background(), "text")

	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestClaudeParser_ParseItems_NoArrayInOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse("Bohužel nemohu fakturu zpracovat."))
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	items, err := p.ParseItems(context.Background(), "text")

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "no JSON array")
}

func TestClaudeParser_ParseItems_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	items, err := p.ParseItems(context.Background(), "text")

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClaudeParser_ParseItems_TruncatesLongText(t *testing.T) {
	var gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)
		gotContent = reqBody.Messages[0].Content
		_ = json.NewEncoder(w).Encode(textResponse("[]"))
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	_, err := p.ParseItems(context.Background(), strings.Repeat("x", parser.MaxPromptChars+5000))

	assert.NoError(t, err)
	assert.LessOrEqual(t, len(gotContent), len(parser.UserPromptPrefix)+parser.MaxPromptChars)
}

func TestClaudeParser_ParseItems_TruncatesOnRuneBoundary(t *testing.T) {
	var gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)
		gotContent = reqBody.Messages[0].Content
		_ = json.NewEncoder(w).Encode(textResponse("[]"))
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	_, err := p.ParseItems(context.Background(), strings.Repeat("ž", parser.MaxPromptChars+100))

	assert.NoError(t, err)
	// The cap counts characters, so a multi-byte letter is never split.
	assert.True(t, utf8.ValidString(gotContent))
	sent := strings.TrimPrefix(gotContent, parser.UserPromptPrefix)
	assert.Equal(t, parser.MaxPromptChars, utf8.RuneCountInString(sent))
}

func TestClaudeParser_ParseItems_MaxTokensStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := textResponse(`[{"phoneNumber":"604`)
		resp["stop_reason"] = "max_tokens"
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := newTestParser(server.URL)
	_, err := p.ParseItems(context.Background(), "text")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}
