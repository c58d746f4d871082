/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles means the request carried no file fields at all.
	ErrNoFiles = errors.New("no files uploaded")
	// ErrNoFilesSelected means file fields were present but all empty.
	ErrNoFilesSelected = errors.New("no files selected")
	// ErrUnsupportedType means a file extension is not accepted.
	ErrUnsupportedType = errors.New("file type not supported")
	// ErrFileTooLarge means the upload exceeded the configured limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrOCRUnavailable means no OCR engine can be used for images.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")
	// ErrNoTextDetected means OCR ran but produced no text.
	ErrNoTextDetected = errors.New("no readable text detected")

	errEncryptedPDF    = errors.New("PDF is password protected")
	errEmptyTable      = errors.New("table has no header row")
	errGeminiEmpty     = errors.New("gemini returned an empty response")
	errGeminiAPIKey    = errors.New("gemini API key is required")
	errInvalidImageDim = errors.New("image has no pixels")
)

// FileError ties a validation failure to the offending file name.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
