/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLNotSet                = errors.New("database URL is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrAnalysisNotFound                 = errors.New("analysis not found")
	ErrNilReport                        = errors.New("report is required")
)
