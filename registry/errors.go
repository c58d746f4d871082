/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package registry

import "errors"

var (
	// ErrInvalidRegistry wraps every validation failure returned by Load.
	ErrInvalidRegistry = errors.New("invalid registry")

	errUnknownPriority   = errors.New("unknown priority")
	errUnknownOperator   = errors.New("unknown operator")
	errUnknownLogic      = errors.New("unknown rule logic")
	errUnknownSymptomSet = errors.New("unknown symptom set")
	errUnknownBiomarker  = errors.New("unknown biomarker")
	errDuplicateKey      = errors.New("duplicate key")
	errMissingField      = errors.New("missing required field")
	errInvalidRange      = errors.New("invalid range")
	errInvalidLimit      = errors.New("invalid limit")
)
