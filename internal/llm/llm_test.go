package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

func TestDecodeWordList(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{name: "array", in: `["Wave", "Coral", "Salt"]`, want: []string{"Wave", "Coral", "Salt"}},
		{name: "object", in: `{"words": ["Tide", "Surf"]}`, want: []string{"Tide", "Surf"}},
		{name: "fenced", in: "```json\n[\"Tide\"]\n```", want: []string{"Tide"}},
		{name: "blank", in: "   ", want: nil},
		{name: "not json", in: `Wave, Coral`, wantErr: true},
		{name: "wrong item type", in: `["Wave", 3]`, wantErr: true},
		{name: "scalar", in: `"Wave"`, wantErr: true},
		{name: "object missing words", in: `{"terms": ["Wave"]}`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeWordList(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestWordListSchemaIsObject(t *testing.T) {
	s, err := WordListSchema()
	require.NoError(t, err)
	require.Equal(t, "object", s["type"])
	props, ok := s["properties"].(map[string]any)
	require.True(t, ok, "properties missing: %#v", s)
	require.Contains(t, props, "words")
}

func TestPromptMentionsWordAndRange(t *testing.T) {
	p := Prompt("Ocean")
	if !strings.Contains(p, `"Ocean"`) || !strings.Contains(p, "6 to 8") {
		t.Fatalf("prompt = %q", p)
	}
}

func TestNewRejectsMissingKeyAndUnknownProvider(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, "gemini", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("gemini without key: err = %v", err)
	}
	if _, err := New(ctx, "openai", " "); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("openai without key: err = %v", err)
	}
	if _, err := New(ctx, "bard", "k"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("unknown provider: err = %v", err)
	}
}

func TestOpenAIClientRelatedWords(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"words\": [\"Wave\", \"Coral\"]}"}
			}]
		}`)
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	words, err := c.RelatedWords(context.Background(), RelatedRequest{Word: "Ocean", Model: "gpt-4o-mini", Temperature: 0.8})
	require.NoError(t, err)
	require.Equal(t, []string{"Wave", "Coral"}, words)

	require.Equal(t, "gpt-4o-mini", got["model"])
	require.InDelta(t, 0.8, got["temperature"], 1e-9)
	format, ok := got["response_format"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "json_schema", format["type"])
}

func TestOpenAIClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "nope"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)
	_, err = c.RelatedWords(context.Background(), RelatedRequest{Word: "Ocean", Model: "gpt-4o-mini"})
	require.Error(t, err)
}
