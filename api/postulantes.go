package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/recruit-console/internal/utils"
)

const DefaultPageSize = 20

type Postulante struct {
	DNI                    string   `json:"dni"`
	Name                   string   `json:"name"`
	Email                  string   `json:"email"`
	Telf                   string   `json:"telf"`
	Address                string   `json:"address"`
	RegisDate              string   `json:"regis_date"`
	YearsExper             *float64 `json:"years_exper"`
	LevelEduca             string   `json:"level_educa"`
	Certif                 string   `json:"certif"`
	Languages              string   `json:"languages"`
	DifferentialAdvantages string   `json:"differential_advantages"`
	CVURL                  string   `json:"cv_url"`
}

// PostulanteQuery pages through applicants. Search matches name, DNI or email.
type PostulanteQuery struct {
	Offset int `validate:"gte=0"`
	Limit  int `validate:"gte=0,lte=500"`
	Search string
}

func (q PostulanteQuery) values() url.Values {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(q.Offset))
	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	v.Set("limit", strconv.Itoa(limit))
	utils.AddNonZero(v, "search", q.Search, func(s string) string { return s })
	return v
}

func (s *Service) ListPostulantes(ctx context.Context, q PostulanteQuery) ([]Postulante, error) {
	if err := s.check("ListPostulantes", q); err != nil {
		return nil, err
	}
	var postulantes []Postulante
	if err := s.get(ctx, "/postulantes/", q.values(), &postulantes); err != nil {
		return nil, err
	}
	return postulantes, nil
}

// PostulanteHistory returns every evaluation recorded for the applicant.
func (s *Service) PostulanteHistory(ctx context.Context, dni string) ([]Evaluacion, error) {
	if dni == "" {
		return nil, s.check("PostulanteHistory", struct {
			DNI string `validate:"required"`
		}{})
	}
	var evaluaciones []Evaluacion
	if err := s.get(ctx, fmt.Sprintf("/postulantes/%s/historial", url.PathEscape(dni)), nil, &evaluaciones); err != nil {
		return nil, err
	}
	return evaluaciones, nil
}
