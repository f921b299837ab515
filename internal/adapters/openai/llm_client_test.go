package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/utils"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, reply string, seen *openai.ChatCompletionRequest) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if seen != nil {
			require.NoError(t, json.Unmarshal(body, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	logger := zap.NewNop()
	return NewOpenAIClient(openai.NewClientWithConfig(cfg), "gpt-test", 200, 0.1, 0.9, 1024, logger, utils.NewTextProcessor(logger))
}

func TestOpenAIClient_ParseRecipient(t *testing.T) {
	var req openai.ChatCompletionRequest
	c := newTestClient(t, `{"name1":"Mario","name2":"Rossi","genre":"Mr.","email":"m.rossi@acme.it","is_personal":true,"confidence":0.85,"reasoning":"display name"}`, &req)

	res, err := c.ParseRecipient(context.Background(), &core.LLMInput{
		RawInput:       `"Rossi, Mario" <m.rossi@acme.it>`,
		CleanedEmail:   "m.rossi@acme.it",
		CleanedDisplay: "Rossi, Mario",
		Domain:         "acme.it",
		LocalPart:      "m.rossi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mario", res.Name1)
	assert.Equal(t, "Rossi", res.Name2)
	assert.Equal(t, core.GenreMr, res.Genre)
	assert.True(t, res.IsPersonal)
	assert.Equal(t, 0.85, res.Confidence)

	assert.Equal(t, "gpt-test", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "Email: m.rossi@acme.it")
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestOpenAIClient_MatchUser(t *testing.T) {
	c := newTestClient(t, "```json\n{\"best_match_id\":\"u1\",\"confidence\":0.6,\"alternative_match_ids\":[\"u2\"]}\n```", nil)

	res, err := c.MatchUser(context.Background(), &core.MatchContext{
		Recipient:  core.ParsedRecipient{RawInput: "m.rossi@acme.it", Email: "m.rossi@acme.it"},
		Candidates: []core.UserRecord{{ID: "u1", Name: "Mario Rossi"}, {ID: "u2", Name: "Marco Rossi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.BestMatchID)
	assert.Equal(t, []string{"u2"}, res.AlternativeMatchIDs)
	assert.Equal(t, "gpt-test", res.ModelUsed)
	assert.Equal(t, "gpt-test", c.ModelName())
}

func TestOpenAIClient_BadReply(t *testing.T) {
	c := newTestClient(t, "sorry", nil)
	_, err := c.ParseRecipient(context.Background(), &core.LLMInput{RawInput: "x@y.com"})
	assert.Error(t, err)
}
