package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/recruit-console/apiclient"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
)

// documentTypes are the CV formats the backend accepts; it rejects octet-stream parts.
var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Upload is a file part of a multipart request.
type Upload struct {
	Filename string    `validate:"required"`
	Content  io.Reader `validate:"required"`
}

func (u Upload) contentType() (string, error) {
	ct, ok := documentTypes[strings.ToLower(filepath.Ext(u.Filename))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported document type %q", apperrors.ErrInvalidRequest, u.Filename)
	}
	return ct, nil
}

type formField struct {
	name, value string
}

// newMultipartRequest buffers the whole form so the request can be resent after a refresh.
func newMultipartRequest(method, path string, fields []formField, fileField string, file *Upload) (*apiclient.Request, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("multipart field %s: %w", f.name, err)
		}
	}

	if file != nil {
		ct, err := file.contentType()
		if err != nil {
			return nil, err
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filepath.Base(file.Filename)))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("multipart file %s: %w", fileField, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("multipart file %s: %w", fileField, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("multipart close: %w", err)
	}

	req := apiclient.NewRequest(method, path)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Body = body.Bytes()
	return req, nil
}
