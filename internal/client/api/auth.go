package api

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with the server and installs the issued token into the
// session.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: string(password)}, &resp)
	if err != nil {
		return err
	}
	if err := c.session.SetToken(ctx, resp.Token); err != nil {
		return fmt.Errorf("cannot store session: %w", err)
	}
	return nil
}

// GuestLogin signs in as the shared guest account, provisioning it on the
// server when it does not exist yet.
func (c *Client) GuestLogin(ctx context.Context) error {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/guest-login", struct{}{}, &resp); err != nil {
		return err
	}
	if err := c.session.SetToken(ctx, resp.Token); err != nil {
		return fmt.Errorf("cannot store session: %w", err)
	}
	return nil
}

// Register creates a new account. It does not log in; callers follow up with
// Login when they want a session.
func (c *Client) Register(ctx context.Context, username, email string, password []byte) error {
	return c.do(ctx, http.MethodPost, "/api/register", registerRequest{
		Username: username,
		Email:    email,
		Password: string(password),
	}, nil)
}
