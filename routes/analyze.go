/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"

	"github.com/flamego/flamego"
)

// Analyze handles POST /analyze: a multipart upload of one or more report
// files answered with the collective analysis as JSON.
func Analyze(c flamego.Context, p *Pipeline) {
	files, err := readUploads(c.Request().Request, p.MaxUploadBytes)
	if err != nil {
		var uploadErr *uploadError
		if errors.As(err, &uploadErr) {
			logger.Warn("Rejected upload", "status", uploadErr.status, "reason", uploadErr.message)
			writeError(c, uploadErr.status, uploadErr.message)

			return
		}

		logger.Error("Error reading upload", "error", err)
		writeError(c, http.StatusInternalServerError, msgInternalError)

		return
	}

	res, err := p.Run(c.Request().Context(), files)
	if err != nil {
		logger.Error("Error running analysis", "error", err)
		writeError(c, http.StatusInternalServerError, msgInternalError)

		return
	}

	writeJSON(c, http.StatusOK, res)
}
