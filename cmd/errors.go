/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("CSRF_SECRET is required outside development mode")
	errInvalidOCRBackend     = errors.New("ocr must be one of: tesseract, gemini, none")
	errInvalidFormat         = errors.New("format must be one of: json, text")
	errNoInputFiles          = errors.New("at least one file is required")
)
