package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pagalpdf/internal/config"
	"pagalpdf/internal/domain"
	"pagalpdf/internal/domain/models"
)

// multipartMemory is how much of a parsed form stays in memory before the
// standard library spills parts to disk.
const multipartMemory = 32 << 20

// ParseJSON decodes a JSON request body into dest. The body is capped well
// below the upload limit since JSON endpoints only carry small payloads.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return &domain.ValidationError{Message: "Invalid JSON request body."}
	}
	return nil
}

// ReadUpload extracts the single uploaded file from the named multipart
// field, enforcing the per-file size limit.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string) (*models.Upload, error) {
	uploads, err := ReadUploads(w, r, field, 1, 1)
	if err != nil {
		return nil, err
	}
	return uploads[0], nil
}

// ReadUploads extracts between minCount and maxCount files from the named
// multipart field. Every size check happens here, before anything reaches
// staging: the whole body is capped in proportion to how many files the
// route accepts, and each file is held to the per-file limit with the exact
// message the frontend expects.
func ReadUploads(w http.ResponseWriter, r *http.Request, field string, minCount, maxCount int) ([]*models.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxCount)*(config.MaxUploadBytes+config.FormOverheadBytes))

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &domain.ValidationError{Message: config.MaxUploadSizeMessage}
		}
		return nil, &domain.ValidationError{Message: "Invalid multipart form data."}
	}

	headers := r.MultipartForm.File[field]
	switch {
	case len(headers) == 0:
		return nil, &domain.ValidationError{Message: "No file uploaded."}
	case len(headers) < minCount:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("At least %d files are required.", minCount)}
	case len(headers) > maxCount:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("At most %d files are allowed.", maxCount)}
	}

	uploads := make([]*models.Upload, 0, len(headers))
	for _, header := range headers {
		if header.Size > config.MaxUploadBytes {
			return nil, &domain.ValidationError{Message: config.MaxUploadSizeMessage}
		}

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open multipart file: %w", err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read multipart file: %w", err)
		}

		uploads = append(uploads, &models.Upload{
			Filename:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Size:      int64(len(data)),
			Data:      data,
		})
	}

	return uploads, nil
}
