package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/recruit-console/apiclient"
)

type Area struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State bool   `json:"state"`
}

type AreaInput struct {
	Name string `json:"name" validate:"required"`
}

func (s *Service) ListAreas(ctx context.Context) ([]Area, error) {
	var areas []Area
	if err := s.get(ctx, "/areas/", nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *Service) ListAllAreas(ctx context.Context) ([]Area, error) {
	var areas []Area
	if err := s.get(ctx, "/areas/todos", nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *Service) GetArea(ctx context.Context, id int) (*Area, error) {
	var area Area
	if err := s.get(ctx, fmt.Sprintf("/areas/%d", id), nil, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

func (s *Service) CreateArea(ctx context.Context, in AreaInput) (*Area, error) {
	if err := s.check("CreateArea", in); err != nil {
		return nil, err
	}
	var area Area
	if err := s.sendJSON(ctx, http.MethodPost, "/areas/", in, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

func (s *Service) UpdateArea(ctx context.Context, id int, in AreaInput) (*Area, error) {
	if err := s.check("UpdateArea", in); err != nil {
		return nil, err
	}
	var area Area
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/areas/%d", id), in, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// ToggleArea flips the area between enabled and disabled.
func (s *Service) ToggleArea(ctx context.Context, id int) (*Area, error) {
	var area Area
	if err := s.do(ctx, apiclient.NewRequest(http.MethodPut, fmt.Sprintf("/areas/%d/estado", id)), &area); err != nil {
		return nil, err
	}
	return &area, nil
}
