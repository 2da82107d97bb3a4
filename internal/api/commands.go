package api

import (
	"context"

	"github.com/tradeoff/gameclient/internal/model"
)

// Login exchanges a username for a fresh token pair.
func (c *Client) Login(ctx context.Context, username string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.postWithRetry(ctx, OpLogin, "/login", loginRequest{Username: username}, &resp)
	return resp, err
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.postWithRetry(ctx, OpRefresh, "/refresh", refreshRequest{RefreshToken: refreshToken}, &resp)
	return resp, err
}

// OpenPosition opens a long or short position at the server-determined entry
// price. Not retried: the command is not idempotent.
func (c *Client) OpenPosition(ctx context.Context, posType model.PositionType) (model.Position, error) {
	var pos model.Position
	err := c.post(ctx, OpOpenPosition, "/position", positionRequest{Type: posType}, &pos)
	return pos, err
}

// ClosePosition closes the caller's active position. Not retried.
func (c *Client) ClosePosition(ctx context.Context) error {
	return c.post(ctx, OpClosePosition, "/close-position", nil, nil)
}
