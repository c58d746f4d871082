/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// SetPDFLicense registers a metered unipdf API key. An empty key is a
// no-op; extraction then runs unlicensed.
func SetPDFLicense(key string) error {
	if key == "" {
		return nil
	}

	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set PDF license key: %w", err)
	}

	return nil
}

// PDFText extracts the text of every page. Encrypted documents are tried
// with an empty password. Pages that fail to extract are skipped and
// counted.
func PDFText(data []byte) (string, int, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return "", 0, fmt.Errorf("failed to check PDF encryption: %w", err)
	}

	if encrypted {
		ok, err := reader.Decrypt([]byte(""))
		if err != nil {
			return "", 0, fmt.Errorf("failed to decrypt PDF: %w", err)
		}

		if !ok {
			return "", 0, errEncryptedPDF
		}
	}

	pages, err := reader.GetNumPages()
	if err != nil {
		return "", 0, fmt.Errorf("failed to count PDF pages: %w", err)
	}

	var sb strings.Builder

	skipped := 0

	for i := 1; i <= pages; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			skipped++

			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), skipped, nil
}

func pageText(reader *model.PdfReader, n int) (string, error) {
	page, err := reader.GetPage(n)
	if err != nil {
		return "", err
	}

	ex, err := extractor.New(page)
	if err != nil {
		return "", err
	}

	return ex.ExtractText()
}
