// Package api exposes the recruitment backend's resources as typed calls over an
// authenticated apiclient.Doer.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/recruit-console/apiclient"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
)

// Service issues resource calls through the client. Token handling, refresh and logout
// all happen below it in the client.
type Service struct {
	client   apiclient.Doer
	validate *validator.Validate
}

func New(client apiclient.Doer) *Service {
	return &Service{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ActionResult is the acknowledgement returned by state-changing endpoints. The backend
// uses either "message" or "msg".
type ActionResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (r *ActionResult) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Msg
}

func (s *Service) check(op string, v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Service) do(ctx context.Context, req *apiclient.Request, out any) error {
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return fmt.Errorf("%s: %w", req, err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, path string, query url.Values, out any) error {
	req := apiclient.NewRequest(http.MethodGet, path)
	req.Query = query
	return s.do(ctx, req, out)
}

func (s *Service) sendJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := apiclient.NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

// action sends a body-less state change and returns the backend's acknowledgement.
func (s *Service) action(ctx context.Context, method, path string) (*ActionResult, error) {
	var result ActionResult
	if err := s.do(ctx, apiclient.NewRequest(method, path), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
