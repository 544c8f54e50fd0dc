// internal/common/http/request.go
package http

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "sahachari/internal/common/errors"
)

// Upload is one file part of a multipart request.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// DecodeJSON reads exactly one JSON object from the body into target.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target interface{}, maxBytes int64) error {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			return apperrors.NewPayloadTooLargeError(maxErr.Limit)
		case stderrors.Is(err, io.EOF):
			return apperrors.NewBadRequestError("Request body is required.", "")
		default:
			return apperrors.NewBadRequestError("Invalid JSON payload.", err.Error())
		}
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.NewBadRequestError("Request body must contain a single JSON object.", "")
	}
	return nil
}

// IsMultipart reports whether the request carries a multipart form body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// ParseMultipart parses a multipart body of at most maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return apperrors.NewPayloadTooLargeError(maxErr.Limit)
		}
		return apperrors.NewBadRequestError("Invalid multipart form.", err.Error())
	}
	return nil
}

// ReadFile returns the named file part, or nil when the form has none.
// ParseMultipart must have been called first.
func ReadFile(r *http.Request, field, defaultMIME string) (*Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid %s upload.", field), err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid %s upload.", field), err.Error())
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = defaultMIME
	}

	return &Upload{
		Filename: header.Filename,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}
