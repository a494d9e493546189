package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	"tickerdash/internal/models"
)

// loginForm is the OAuth2 password-flow form the backend expects.
type loginForm struct {
	Username string `url:"username"`
	Password string `url:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (models.Token, error) {
	values, err := query.Values(loginForm{Username: username, Password: password})
	if err != nil {
		return models.Token{}, err
	}
	var tok models.Token
	err = c.do(ctx, call{
		op:          "login",
		method:      http.MethodPost,
		path:        "/api/auth/login",
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &tok)
	return tok, err
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, email, username, password string) error {
	cl, err := c.jsonCall("register", http.MethodPost, "/api/auth/register",
		registerRequest{Email: email, Username: username, Password: password})
	if err != nil {
		return err
	}
	cl.auth = false
	return c.do(ctx, cl, nil)
}

// CurrentUser returns the account the stored token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, call{op: "current_user", method: http.MethodGet, path: "/api/auth/me", auth: true}, &u)
	return u, err
}
