/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
)

type healthResponse struct {
	Status     string `json:"status"`
	Biomarkers int    `json:"biomarkers"`
	Rules      int    `json:"rules"`
	Database   bool   `json:"database"`
}

// Healthz reports liveness and the size of the loaded registry.
func Healthz(c flamego.Context, p *Pipeline) {
	reg := p.Analyzer.Registry()

	writeJSON(c, http.StatusOK, healthResponse{
		Status:     "ok",
		Biomarkers: len(reg.Biomarkers()),
		Rules:      len(reg.Rules()),
		Database:   persistenceEnabledFn(),
	})
}
