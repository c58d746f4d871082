/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flamego/flamego"
)

var (
	errInvalidUpload     = errors.New("invalid upload form")
	errHistoryDisabled   = errors.New("history requires a database")
	errInvalidAnalysisID = errors.New("invalid analysis ID")
)

// Error messages returned by the JSON API.
const (
	msgNoFilesUploaded  = "No files uploaded"
	msgNoFilesSelected  = "No files selected"
	msgFileNotSupported = "File type not supported: %s"
	msgFileTooLarge     = "File too large. Maximum size is %dMB."
	msgNotFound         = "Endpoint not found"
	msgInternalError    = "Internal server error"
)

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c flamego.Context, status int, v any) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(v); err != nil {
		logger.Error("Error encoding JSON response", "error", err)
	}
}

func writeError(c flamego.Context, status int, message string) {
	writeJSON(c, status, errorResponse{Error: message})
}

// NotFound answers unknown routes with a JSON error.
func NotFound(c flamego.Context) {
	writeError(c, http.StatusNotFound, msgNotFound)
}

// Recoverer turns a panicking handler into a JSON 500 response.
func Recoverer() flamego.Handler {
	return func(c flamego.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from panic", "method", c.Request().Method, "path", c.Request().URL.Path, "panic", fmt.Sprint(r))

				if !c.ResponseWriter().Written() {
					writeError(c, http.StatusInternalServerError, msgInternalError)
				}
			}
		}()

		c.Next()
	}
}
