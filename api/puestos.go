package api

import (
	"context"
	"fmt"
	"net/http"
)

// Puesto is a job position.
type Puesto struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	AreaID int    `json:"area_id"`
	State  bool   `json:"state"`
	Area   *Area  `json:"area,omitempty"`
}

type PuestoInput struct {
	Name   string `json:"name" validate:"required"`
	AreaID int    `json:"area_id" validate:"required,gt=0"`
}

// ListPuestos returns the active job positions.
func (s *Service) ListPuestos(ctx context.Context) ([]Puesto, error) {
	var puestos []Puesto
	if err := s.get(ctx, "/puestos/", nil, &puestos); err != nil {
		return nil, err
	}
	return puestos, nil
}

// ListAllPuestos includes disabled positions.
func (s *Service) ListAllPuestos(ctx context.Context) ([]Puesto, error) {
	var puestos []Puesto
	if err := s.get(ctx, "/puestos/todos", nil, &puestos); err != nil {
		return nil, err
	}
	return puestos, nil
}

func (s *Service) GetPuesto(ctx context.Context, id int) (*Puesto, error) {
	var puesto Puesto
	if err := s.get(ctx, fmt.Sprintf("/puestos/%d", id), nil, &puesto); err != nil {
		return nil, err
	}
	return &puesto, nil
}

func (s *Service) CreatePuesto(ctx context.Context, in PuestoInput) (*Puesto, error) {
	if err := s.check("CreatePuesto", in); err != nil {
		return nil, err
	}
	var puesto Puesto
	if err := s.sendJSON(ctx, http.MethodPost, "/puestos/", in, &puesto); err != nil {
		return nil, err
	}
	return &puesto, nil
}

func (s *Service) UpdatePuesto(ctx context.Context, id int, in PuestoInput) (*Puesto, error) {
	if err := s.check("UpdatePuesto", in); err != nil {
		return nil, err
	}
	var puesto Puesto
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/puestos/%d", id), in, &puesto); err != nil {
		return nil, err
	}
	return &puesto, nil
}

func (s *Service) DisablePuesto(ctx context.Context, id int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/puestos/%d/desactivar", id))
}

func (s *Service) EnablePuesto(ctx context.Context, id int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/puestos/%d/activar", id))
}
