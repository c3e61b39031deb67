package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login signs in with email and password and stores the session
func (c *Client) Login(ctx context.Context, creds Credentials) (models.User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	var resp userResponse
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     jsonBody(creds),
		fallback: "Login failed. Please try again.",
	}, &resp)
	if err != nil {
		return models.User{}, err
	}

	user, ok := resp.user()
	if resp.Token == "" || !ok {
		return models.User{}, &RemoteError{Op: "login", StatusCode: http.StatusOK, Message: "Invalid response from server"}
	}
	if err := c.session.Set(resp.Token, &user); err != nil {
		return user, err
	}
	return user, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))

	return c.do(ctx, call{
		op:       "register",
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     jsonBody(reg),
		fallback: "Signup failed. Please try again.",
	}, nil)
}

// GoogleAuthURL asks the API where to send the user for Google sign-in
func (c *Client) GoogleAuthURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := c.do(ctx, call{
		op:       "google_auth_url",
		method:   http.MethodGet,
		path:     "/auth/google/url",
		fallback: "Failed to initiate Google authentication",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", &RemoteError{Op: "google_auth_url", StatusCode: http.StatusOK, Message: "Invalid response from server"}
	}
	return resp.URL, nil
}

// CompleteGoogleLogin stores the token handed back by the OAuth callback and
// loads the user it belongs to. The session is cleared again if that fails.
func (c *Client) CompleteGoogleLogin(ctx context.Context, token string) (models.User, error) {
	if err := c.session.Set(token, nil); err != nil {
		return models.User{}, err
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		c.session.Clear()
		return models.User{}, err
	}
	if err := c.session.Set(token, &user); err != nil {
		return user, err
	}
	return user, nil
}

// Logout forgets the session. The API keeps no server-side session, so
// nothing is sent.
func (c *Client) Logout() error {
	return c.session.Clear()
}
