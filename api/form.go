package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/recruit-console/apiclient"
)

// FormInfo is the public description of a process's application form.
type FormInfo struct {
	ProcessCode   string `json:"process_code"`
	ProcessID     int    `json:"process_id"`
	ProcessName   string `json:"process_name"`
	Puesto        string `json:"puesto"`
	DriveFolderID string `json:"drive_folder_id"`
	FormURL       string `json:"form_url"`
}

// Application is a candidate's submission through the public form.
type Application struct {
	Name          string `validate:"required"`
	DNI           string `validate:"required"`
	Telf          string
	Email         string `validate:"required,email"`
	Address       string
	Puesto        string
	ProcessCode   string `validate:"required"`
	ProcessName   string
	DriveFolderID string
	FormToken     string
	CV            Upload
}

type ApplicationReceipt struct {
	Detail        string `json:"detail"`
	PostulantDNI  string `json:"postulant_dni"`
	PostulationID int    `json:"postulation_id"`
	FileURL       string `json:"file_url"`
}

// FormInfo resolves a process code and form token. It is public and sends no credentials.
func (s *Service) FormInfo(ctx context.Context, processCode, formToken string) (*FormInfo, error) {
	in := struct {
		ProcessCode string `validate:"required"`
		FormToken   string `validate:"required"`
	}{processCode, formToken}
	if err := s.check("FormInfo", in); err != nil {
		return nil, err
	}

	req := apiclient.NewRequest(http.MethodGet, fmt.Sprintf("/form/info/%s/%s", url.PathEscape(processCode), url.PathEscape(formToken)))
	req.Anonymous = true

	var info FormInfo
	if err := s.do(ctx, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Apply submits an application with its CV. It is public and sends no credentials.
func (s *Service) Apply(ctx context.Context, app Application) (*ApplicationReceipt, error) {
	if err := s.check("Apply", app); err != nil {
		return nil, err
	}

	req, err := newMultipartRequest(http.MethodPost, "/form/apply", []formField{
		{"name", app.Name},
		{"dni", app.DNI},
		{"telf", app.Telf},
		{"email", app.Email},
		{"address", app.Address},
		{"puesto", app.Puesto},
		{"process_code", app.ProcessCode},
		{"process_name", app.ProcessName},
		{"drive_folder_id", app.DriveFolderID},
		{"form_token", app.FormToken},
	}, "cv", &app.CV)
	if err != nil {
		return nil, fmt.Errorf("Apply: %w", err)
	}
	req.Anonymous = true

	var receipt ApplicationReceipt
	if err := s.do(ctx, req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
