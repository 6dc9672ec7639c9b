// Package gemini is a minimal client for the Google Generative Language
// API's generateContent endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	baseURL = "https://generativelanguage.googleapis.com"
	model   = "gemini-1.5-flash-latest"
)

// ErrEmptyResponse indicates a 2xx response without any generated text.
var ErrEmptyResponse = errors.New("empty response from gemini")

// Client defines the text generation operation used by the assistant.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type apiClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient creates a configured Gemini client. Requests time out after 15s;
// a timeout surfaces as a transport error, never a hang.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &apiClient{httpClient: client, apiKey: apiKey}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent submits a single-turn prompt and returns the generated
// text. Transport failures, non-2xx statuses and bodies without candidates
// all return an error.
func (c *apiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var respBody generateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", model))

	if err != nil {
		return "", fmt.Errorf("gemini api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini api error: status %d", resp.StatusCode())
	}
	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return respBody.Candidates[0].Content.Parts[0].Text, nil
}
