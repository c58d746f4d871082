/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/flamego/flamego"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// reportURL returns the absolute address of a stored analysis, honouring
// the scheme and host set by a reverse proxy.
func reportURL(c flamego.Context, id uuid.UUID) string {
	r := c.Request()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = forwarded
	}

	host := r.Host
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); forwarded != "" {
		host = forwarded
	}

	return fmt.Sprintf("%s://%s/history/%s", scheme, host, id)
}

func generateQRCodeBase64(value string) (string, error) {
	png, err := qrcode.Encode(value, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
