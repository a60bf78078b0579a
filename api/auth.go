package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/recruit-console/apiclient"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/token"
	"golang.org/x/oauth2"
)

const (
	LoginPath        = "/login"
	RegisterUserPath = "/registro"
)

type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Login exchanges credentials for a token pair. The call is anonymous, so a 401 here is
// returned as is. A response without both tokens is rejected, since a session needs the
// pair to be restored and refreshed.
func (s *Service) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	creds := Credentials{Username: username, Password: password}
	if err := s.check("Login", creds); err != nil {
		return nil, err
	}

	req := apiclient.NewFormRequest(http.MethodPost, LoginPath, url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	})
	req.Anonymous = true

	var body loginResponse
	if err := s.do(ctx, req, &body); err != nil {
		return nil, err
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("Login: %w: response missing access_token", apperrors.ErrInvalidToken)
	}
	if body.RefreshToken == "" {
		return nil, fmt.Errorf("Login: %w: response missing refresh_token", apperrors.ErrInvalidToken)
	}

	tok := &oauth2.Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		TokenType:    body.TokenType,
	}
	if body.ExpiresIn > 0 {
		tok.Expiry = token.NowTimeFunc().Add(time.Duration(body.ExpiresIn) * time.Second)
	} else if identity, err := token.Decode(body.AccessToken); err == nil && identity.ExpiresAt != nil {
		tok.Expiry = *identity.ExpiresAt
	}
	return tok, nil
}

// RegisterUser creates a backend user. Admin only.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (*ActionResult, error) {
	creds := Credentials{Username: username, Password: password}
	if err := s.check("RegisterUser", creds); err != nil {
		return nil, err
	}

	req := apiclient.NewFormRequest(http.MethodPost, RegisterUserPath, url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	})
	var result ActionResult
	if err := s.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
