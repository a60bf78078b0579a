package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/recruit-console/apiclient"
	"github.com/jrsteele09/recruit-console/internal/utils"
)

// Proceso is a CV charge process opened for a job position.
type Proceso struct {
	ID             int    `json:"id"`
	Code           string `json:"code"`
	JobID          int    `json:"job_id"`
	Area           string `json:"area"`
	Reque          string `json:"reque"`
	Functions      string `json:"functions"`
	DriveFolderID  string `json:"drive_folder_id"`
	DriveFolderURL string `json:"drive_folder_url"`
	CreateDate     string `json:"create_date"`
	State          bool   `json:"state"`
	Autor          string `json:"autor"`
	EndProcess     bool   `json:"end_process"`
	IsProcessing   bool   `json:"is_processing"`
	FormURL        string `json:"form_url"`
	FormToken      string `json:"form_token"`
	UserID         int    `json:"user_id"`
}

// ProcesoFilter narrows ListProcesos. Nil fields are not sent.
type ProcesoFilter struct {
	JobID *int
	State *bool
}

func (f ProcesoFilter) query() url.Values {
	q := url.Values{}
	utils.AddOptional(q, "job_id", f.JobID, strconv.Itoa)
	utils.AddOptional(q, "state", f.State, strconv.FormatBool)
	return q
}

type ProcesoInput struct {
	JobID int    `validate:"required,gt=0"`
	Reque string `validate:"required"`
	Area  string `validate:"required"`
}

// ProcesoEvaluacion is one CV evaluation recorded against a process.
type ProcesoEvaluacion struct {
	Name    string  `json:"name"`
	Match   float64 `json:"match"`
	Summary string  `json:"summary"`
	Reason  string  `json:"reason"`
	Skills  string  `json:"skills"`
	Fecha   string  `json:"fecha"`
}

type ProcessCVsResult struct {
	EvaluacionesRegistradas int                 `json:"evaluaciones_registradas"`
	PostulantesProcesados   int                 `json:"postulantes_procesados"`
	Evaluaciones            []ProcesoEvaluacion `json:"evaluaciones"`
}

func (s *Service) ListProcesos(ctx context.Context, filter ProcesoFilter) ([]Proceso, error) {
	var procesos []Proceso
	if err := s.get(ctx, "/procesos/listar", filter.query(), &procesos); err != nil {
		return nil, err
	}
	return procesos, nil
}

func (s *Service) GetProceso(ctx context.Context, id int) (*Proceso, error) {
	var proceso Proceso
	if err := s.get(ctx, fmt.Sprintf("/procesos/%d", id), nil, &proceso); err != nil {
		return nil, err
	}
	return &proceso, nil
}

// CreateProceso opens a charge process. The backend creates the Drive folder and the
// public application form.
func (s *Service) CreateProceso(ctx context.Context, in ProcesoInput) (*Proceso, error) {
	if err := s.check("CreateProceso", in); err != nil {
		return nil, err
	}
	req, err := newMultipartRequest(http.MethodPost, "/crear-proceso-carga/", []formField{
		{"job_id", strconv.Itoa(in.JobID)},
		{"reque", in.Reque},
		{"area", in.Area},
	}, "", nil)
	if err != nil {
		return nil, err
	}

	var proceso Proceso
	if err := s.do(ctx, req, &proceso); err != nil {
		return nil, err
	}
	return &proceso, nil
}

func (s *Service) EnableProceso(ctx context.Context, id int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/procesos/%d/activar", id))
}

func (s *Service) DisableProceso(ctx context.Context, id int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/procesos/%d/desactivar", id))
}

// ProcessCVs evaluates every CV in the process folder.
func (s *Service) ProcessCVs(ctx context.Context, id int) (*ProcessCVsResult, error) {
	var result ProcessCVsResult
	if err := s.do(ctx, apiclient.NewRequest(http.MethodPost, fmt.Sprintf("/procesos/%d/procesar-cvs", id)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListProcesoEvaluaciones(ctx context.Context, id int) ([]ProcesoEvaluacion, error) {
	var evaluaciones []ProcesoEvaluacion
	if err := s.get(ctx, fmt.Sprintf("/procesos/%d/evaluaciones", id), nil, &evaluaciones); err != nil {
		return nil, err
	}
	return evaluaciones, nil
}
