package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, inspect func(r *http.Request, req chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if inspect != nil {
			inspect(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":" 4\n"},"finish_reason":"stop"}]}`,
		func(r *http.Request, req chatRequest) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.Equal(t, "gpt-3.5-turbo", req.Model)
			assert.Equal(t, 0.0, req.Temperature)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "rate this lead", req.Messages[0].Content)
		})
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL + "/v1/", APIKey: "sk-test", Timeout: 5 * time.Second})

	reply, err := client.Complete(context.Background(), Request{Prompt: "rate this lead", Model: "gpt-3.5-turbo"})
	require.NoError(t, err)
	assert.Equal(t, " 4\n", reply)
}

func TestOpenAIClient_APIError(t *testing.T) {
	server := newTestServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, nil)
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL, APIKey: "bad"})
	_, err := client.Complete(context.Background(), Request{Prompt: "p", Model: "m"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.False(t, IsTimeout(err))
}

func TestOpenAIClient_APIErrorWithoutBody(t *testing.T) {
	server := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)
	defer server.Close()

	_, err := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL}).Complete(context.Background(), Request{Prompt: "p"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
	defer server.Close()

	_, err := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL}).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenAIClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := client.Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestOpenAIClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewOpenAIClient(OpenAIConfig{BaseURL: url}).Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call completion service")
	assert.False(t, IsTimeout(err))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(errors.New("boom")))
}
