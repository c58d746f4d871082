/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/flamego/flamego"

	"github.com/humaidq/healthscore/ingest"
)

// Parts beyond this size are spooled to disk by the multipart reader.
const multipartMemory = 8 << 20

// uploadError is a request validation failure with its HTTP status and the
// message shown to the client.
type uploadError struct {
	status  int
	message string
	err     error
}

func (e *uploadError) Error() string {
	return e.message
}

func (e *uploadError) Unwrap() error {
	return e.err
}

// uploadFailure maps a validation error to its client-facing form.
func uploadFailure(err error, maxBytes int64) *uploadError {
	var fileErr *ingest.FileError

	switch {
	case errors.Is(err, ingest.ErrNoFiles):
		return &uploadError{status: http.StatusBadRequest, message: msgNoFilesUploaded, err: err}
	case errors.Is(err, ingest.ErrNoFilesSelected):
		return &uploadError{status: http.StatusBadRequest, message: msgNoFilesSelected, err: err}
	case errors.As(err, &fileErr) && errors.Is(err, ingest.ErrUnsupportedType):
		return &uploadError{status: http.StatusBadRequest, message: fmt.Sprintf(msgFileNotSupported, fileErr.Name), err: err}
	case errors.Is(err, ingest.ErrFileTooLarge):
		return &uploadError{status: http.StatusRequestEntityTooLarge, message: fmt.Sprintf(msgFileTooLarge, maxBytes>>20), err: err}
	default:
		return &uploadError{status: http.StatusBadRequest, message: msgNoFilesUploaded, err: err}
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError

	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// LimitUploadSize caps the request body before anything parses it.
func LimitUploadSize(maxBytes int64) flamego.Handler {
	return func(c flamego.Context) {
		req := c.Request().Request
		req.Body = http.MaxBytesReader(c.ResponseWriter(), req.Body, maxBytes)
	}
}

// readUploads reads the "files" field, or the single "file" field, of a
// multipart request.
func readUploads(r *http.Request, maxBytes int64) ([]ingest.File, error) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			switch {
			case isTooLarge(err):
				return nil, uploadFailure(ingest.ErrFileTooLarge, maxBytes)
			case errors.Is(err, http.ErrNotMultipart):
				return nil, uploadFailure(ingest.ErrNoFiles, maxBytes)
			default:
				return nil, uploadFailure(fmt.Errorf("%w: %w", errInvalidUpload, err), maxBytes)
			}
		}
	}

	headers, names := selectedFiles(r.MultipartForm)
	if err := ingest.CheckSelection(names); err != nil {
		return nil, uploadFailure(err, maxBytes)
	}

	files := make([]ingest.File, 0, len(headers))

	for _, h := range headers {
		data, err := readPart(h)
		if err != nil {
			if isTooLarge(err) {
				return nil, uploadFailure(ingest.ErrFileTooLarge, maxBytes)
			}

			return nil, fmt.Errorf("failed to read %s: %w", h.Filename, err)
		}

		f, err := ingest.NewFile(h.Filename, data)
		if err != nil {
			return nil, uploadFailure(err, maxBytes)
		}

		files = append(files, f)
	}

	return files, nil
}

// selectedFiles returns the file headers and the submitted names. A file
// input left empty arrives as a plain value with no filename, which is
// reported as a blank name.
func selectedFiles(form *multipart.Form) ([]*multipart.FileHeader, []string) {
	if form == nil {
		return nil, nil
	}

	var names []string

	for _, field := range []string{"files", "file"} {
		headers := form.File[field]
		if len(headers) > 0 {
			for _, h := range headers {
				names = append(names, h.Filename)
			}

			return headers, names
		}

		if _, ok := form.Value[field]; ok {
			names = append(names, "")
		}
	}

	return nil, names
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Error closing upload part", "file", h.Filename, "error", err)
		}
	}()

	return io.ReadAll(f)
}
