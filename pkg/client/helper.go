package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/darmiel/ctoken/internal/api/middleware"
	"github.com/darmiel/ctoken/internal/api/presenter"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode    int
	CorrelationID string
	Message       string
	// Cause is the underlying failure reported by the server, if any.
	Cause string
}

func (e APIError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("api error %d: '%s: %s' (correlation: %s)", e.StatusCode, e.Message, e.Cause, e.CorrelationID)
	}
	return fmt.Sprintf("api error %d: '%s' (correlation: %s)", e.StatusCode, e.Message, e.CorrelationID)
}

func correlationFromResponse(resp *http.Response) string {
	return resp.Header.Get(middleware.CorrelationIDHeader)
}

func (c *Client) get(ctx context.Context, url string, result any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, url string, payload, result any) (string, error) {
	var body io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewBuffer(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func parseErrorResponse(resp *http.Response) error {
	correlation := correlationFromResponse(resp)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}
	var errResp presenter.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return APIError{
			StatusCode:    resp.StatusCode,
			CorrelationID: correlation,
			Message:       errResp.Error,
			Cause:         errResp.Message,
		}
	}
	return fmt.Errorf("api error: *unparsed '%s' (status %d)", string(body), resp.StatusCode)
}

func (c *Client) do(req *http.Request, result any) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return correlationFromResponse(resp), parseErrorResponse(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return correlationFromResponse(resp), fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return correlationFromResponse(resp), nil
}
