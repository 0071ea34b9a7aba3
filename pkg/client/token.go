package client

import (
	"context"

	"github.com/darmiel/ctoken/internal/api"
)

// GenerateToken requests a token for an existing user id.
// It returns the token response and the correlation id of the request.
func (c *Client) GenerateToken(ctx context.Context, userID, apiKey string) (*api.TokenResponse, string, error) {
	payload := api.GenerateTokenPayload{
		UserID: userID,
		APIKey: apiKey,
	}
	var resp api.TokenResponse
	correlation, err := c.post(ctx, c.url().setPath(api.GenerateTokenRoute).build(), payload, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

// GenerateTokenByEmail requests a token for the user with the given email.
// The server creates the user if it does not exist yet.
func (c *Client) GenerateTokenByEmail(ctx context.Context, email, apiKey string) (*api.TokenResponse, string, error) {
	payload := api.GenerateTokenByEmailPayload{
		Email:  email,
		APIKey: apiKey,
	}
	var resp api.TokenResponse
	correlation, err := c.post(ctx, c.url().setPath(api.GenerateTokenByEmailRoute).build(), payload, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}
