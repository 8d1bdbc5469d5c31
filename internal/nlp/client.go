package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/errors"
)

// Client calls the external NLP collaborator that matches user queries
// against the labour-law knowledge base. The collaborator is opaque to this
// service beyond its request/response contract.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string // If the collaborator requires auth
}

// NewClient creates a client using the configured service endpoint
func NewClient() *Client {
	cfg := config.Get()
	baseURL := cfg.Services.NLPServiceURL
	if baseURL == "" {
		baseURL = "http://localhost:5001" // fallback
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Services.NLPRequestTimeout},
		baseURL: baseURL,
	}
}

// AnswerRequest is the payload sent to the collaborator
type AnswerRequest struct {
	QueryText string `json:"query_text"`
	UserID    string `json:"user_id"`
	Language  string `json:"language"`
}

// AnswerResponse is the collaborator's reply. Status may be "unanswered"
// when the collaborator has no confident match.
type AnswerResponse struct {
	BotResponse     string   `json:"bot_response"`
	Status          string   `json:"status"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

// GetAnswer performs one bounded request/response exchange with the
// collaborator. Transport errors, timeouts, non-2xx responses and
// undecodable bodies all surface as UPSTREAM_UNAVAILABLE; the caller must
// not log such exchanges as escalations.
func (c *Client) GetAnswer(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return AnswerResponse{}, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable,
			fmt.Sprintf("failed to encode NLP request: %v", err))
	}

	url := c.baseURL + "/get-answer"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return AnswerResponse{}, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable,
			fmt.Sprintf("failed to create NLP request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return AnswerResponse{}, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable,
			fmt.Sprintf("NLP service unreachable: %v", err))
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return AnswerResponse{}, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable,
			fmt.Sprintf("NLP service returned status %d", httpResp.StatusCode))
	}

	var resp AnswerResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return AnswerResponse{}, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable,
			fmt.Sprintf("malformed NLP response: %v", err))
	}

	return resp, nil
}

// BaseURL exposes the configured endpoint for health checks
func (c *Client) BaseURL() string {
	return c.baseURL
}
