package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/recruit-console/internal/metrics"
	"github.com/jrsteele09/recruit-console/token"
	"golang.org/x/oauth2"
)

const refreshFlightKey = "refresh"

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return f(ctx, refreshToken)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// endpointRefresher posts the refresh token to the backend's refresh endpoint. It goes
// through send directly, so a 401 from the endpoint is a plain failure and never recurses
// into another refresh.
type endpointRefresher struct {
	client *Client
}

func (r *endpointRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	req, err := NewJSONRequest(http.MethodPost, r.client.refreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	req.Anonymous = true

	resp, err := r.client.send(ctx, req, "", uuid.NewString())
	if err != nil {
		return nil, err
	}

	var body refreshResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("refresh response: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  body.AccessToken,
		TokenType:    body.TokenType,
		RefreshToken: body.RefreshToken,
	}
	if body.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	} else if identity, err := token.Decode(body.AccessToken); err == nil && identity.ExpiresAt != nil {
		tok.Expiry = *identity.ExpiresAt
	}
	return tok, nil
}

// refreshOutcome tells a rejected call what to do once the flight it led or joined ends.
type refreshOutcome int

const (
	// refreshDone means a new access token was stored.
	refreshDone refreshOutcome = iota
	// refreshAlreadyDone means the session already holds a newer access token.
	refreshAlreadyDone
	// refreshUnavailable means there is no refresh token; the rejection stands.
	refreshUnavailable
)

// refresh starts a refresh or joins the one already in flight and waits for its outcome.
// sentWith is the access token the rejected call carried. Session tokens are read only
// while holding the flight. The refresh itself is detached from ctx so one caller giving
// up does not fail the others.
func (c *Client) refresh(ctx context.Context, sentWith string) (refreshOutcome, error) {
	leader := false
	ch := c.refreshGroup.DoChan(refreshFlightKey, func() (any, error) {
		leader = true
		return c.runRefresh(ctx, sentWith)
	})

	select {
	case <-ctx.Done():
		return refreshUnavailable, ctx.Err()
	case res := <-ch:
		if !leader {
			c.metrics.ObserveRefresh(metrics.RefreshShared)
		}
		if res.Err != nil {
			return refreshUnavailable, res.Err
		}
		return res.Val.(refreshOutcome), nil
	}
}

func (c *Client) runRefresh(ctx context.Context, sentWith string) (refreshOutcome, error) {
	refreshToken := c.session.RefreshToken()
	current := c.session.AccessToken()
	if refreshToken == "" {
		if sentWith != "" && current == "" {
			c.logger.Debug().Msg("Session already ended, returning rejection")
			return refreshUnavailable, nil
		}
		c.logger.Info().Msg("Access token rejected with no refresh token, logging out")
		c.session.Logout()
		return refreshUnavailable, nil
	}
	if current != "" && current != sentWith {
		c.metrics.ObserveRefresh(metrics.RefreshSkipped)
		c.logger.Debug().Msg("Access token already refreshed, retrying")
		return refreshAlreadyDone, nil
	}

	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	c.logger.Info().Msg("Access token rejected, refreshing")
	tok, err := c.refresher.Refresh(refreshCtx, refreshToken)
	if err == nil && (tok == nil || tok.AccessToken == "") {
		err = errors.New("refresh response missing access_token")
	}
	if err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshFailure)
		c.logger.Err(err).Msg("Token refresh failed, logging out")
		c.session.Logout()
		return refreshUnavailable, &RefreshError{Err: err}
	}

	c.session.SetAccessToken(tok.AccessToken)
	c.metrics.ObserveRefresh(metrics.RefreshSuccess)
	c.logger.Info().Msg("Access token refreshed")
	return refreshDone, nil
}
