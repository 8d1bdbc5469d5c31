package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "kamgar-sahayak/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		client:  srv.Client(),
		baseURL: srv.URL,
	}
}

func TestGetAnswerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/get-answer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AnswerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is minimum wage", req.QueryText)
		assert.Equal(t, "hi", req.Language)

		json.NewEncoder(w).Encode(AnswerResponse{
			BotResponse: "The minimum wage depends on your state.",
			Status:      "answered",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv)
	resp, err := client.GetAnswer(context.Background(), AnswerRequest{
		QueryText: "what is minimum wage",
		UserID:    "user-1",
		Language:  "hi",
	})

	require.NoError(t, err)
	assert.Equal(t, "The minimum wage depends on your state.", resp.BotResponse)
	assert.Equal(t, "answered", resp.Status)
}

func TestGetAnswerNon2xxIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.GetAnswer(context.Background(), AnswerRequest{QueryText: "q", UserID: "u"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamUnavailable))
	assert.Equal(t, http.StatusBadGateway, apperrors.FromError(err).StatusCode)
}

func TestGetAnswerMalformedBodyIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.GetAnswer(context.Background(), AnswerRequest{QueryText: "q", UserID: "u"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamUnavailable))
}

func TestGetAnswerUnreachableIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Shut it down immediately so the dial fails

	client := &Client{
		client:  &http.Client{Timeout: time.Second},
		baseURL: srv.URL,
	}

	_, err := client.GetAnswer(context.Background(), AnswerRequest{QueryText: "q", UserID: "u"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamUnavailable))
}

func TestGetAnswerRespectsContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	client := newTestClient(srv)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetAnswer(ctx, AnswerRequest{QueryText: "q", UserID: "u"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamUnavailable))
}
