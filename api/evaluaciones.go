package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/recruit-console/internal/utils"
)

// Evaluacion is a CV scored against a job position.
type Evaluacion struct {
	ID                     int      `json:"id"`
	Name                   string   `json:"name"`
	Match                  float64  `json:"match"`
	MatchEval              *float64 `json:"match_eval"`
	MatchTotal             *float64 `json:"match_total"`
	Reason                 string   `json:"reason"`
	Functions              string   `json:"functions"`
	Skills                 string   `json:"skills"`
	Summary                string   `json:"summary"`
	PuestoID               int      `json:"puesto_id"`
	DNIPostulante          string   `json:"dni_postulante"`
	ChargeProcessID        *int     `json:"charge_process_id"`
	DateCreate             string   `json:"date_create"`
	YearsExper             *float64 `json:"years_exper"`
	LevelEduca             string   `json:"level_educa"`
	Certif                 string   `json:"certif"`
	Languages              string   `json:"languages"`
	DifferentialAdvantages string   `json:"differential_advantages"`
	URLCV                  string   `json:"url_cv"`
}

// EvaluationFilter narrows the evaluation history. Dates use YYYY-MM-DD.
type EvaluationFilter struct {
	Search     string
	PuestoID   *int
	FechaDesde string `validate:"omitempty,datetime=2006-01-02"`
	FechaHasta string `validate:"omitempty,datetime=2006-01-02"`
	MinMatch   *int   `validate:"omitempty,gte=0,lte=100"`
	MaxMatch   *int   `validate:"omitempty,gte=0,lte=100"`
	Offset     int    `validate:"gte=0"`
	Limit      int    `validate:"gte=0,lte=500"`
}

func (f EvaluationFilter) values() url.Values {
	q := url.Values{}
	str := func(s string) string { return s }
	utils.AddNonZero(q, "search", f.Search, str)
	utils.AddOptional(q, "puesto_id", f.PuestoID, strconv.Itoa)
	utils.AddNonZero(q, "fecha_desde", f.FechaDesde, str)
	utils.AddNonZero(q, "fecha_hasta", f.FechaHasta, str)
	utils.AddOptional(q, "min_match", f.MinMatch, strconv.Itoa)
	utils.AddOptional(q, "max_match", f.MaxMatch, strconv.Itoa)
	q.Set("offset", strconv.Itoa(f.Offset))
	limit := f.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	q.Set("limit", strconv.Itoa(limit))
	return q
}

type EvaluationSummary struct {
	Name    string  `json:"name"`
	Match   float64 `json:"match"`
	Puesto  string  `json:"puesto"`
	Summary string  `json:"summary"`
	Reason  string  `json:"reason"`
	Skills  string  `json:"skills"`
	Fecha   string  `json:"fecha"`
	Proceso string  `json:"proceso"`
}

type EvaluationPage struct {
	Total      int                 `json:"total"`
	Resultados []EvaluationSummary `json:"resultados"`
}

func (s *Service) GetEvaluacion(ctx context.Context, id int) (*Evaluacion, error) {
	var evaluacion Evaluacion
	if err := s.get(ctx, fmt.Sprintf("/evaluacion/%d", id), nil, &evaluacion); err != nil {
		return nil, err
	}
	return &evaluacion, nil
}

// EvaluationHistory returns one page of evaluations, newest first. Non-admin users only
// see evaluations from their own processes.
func (s *Service) EvaluationHistory(ctx context.Context, filter EvaluationFilter) (*EvaluationPage, error) {
	if err := s.check("EvaluationHistory", filter); err != nil {
		return nil, err
	}
	var page EvaluationPage
	if err := s.get(ctx, "/evaluaciones/historial", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// EvaluateCV scores a single CV against a job position.
func (s *Service) EvaluateCV(ctx context.Context, puestoID int, cv Upload) (*Evaluacion, error) {
	in := struct {
		PuestoID int `validate:"required,gt=0"`
		CV       Upload
	}{puestoID, cv}
	if err := s.check("EvaluateCV", in); err != nil {
		return nil, err
	}

	req, err := newMultipartRequest(http.MethodPost, "/evaluar-cv/", []formField{
		{"puesto_id", strconv.Itoa(puestoID)},
	}, "archivo", &cv)
	if err != nil {
		return nil, fmt.Errorf("EvaluateCV: %w", err)
	}

	var evaluacion Evaluacion
	if err := s.do(ctx, req, &evaluacion); err != nil {
		return nil, err
	}
	return &evaluacion, nil
}
