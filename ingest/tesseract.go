/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// Page segmentation modes tried in order until one yields text. The empty
// mode leaves the engine default.
var tesseractModes = []string{"", "6", "4", "3", "1"}

// Tesseract runs the tesseract command line tool, streaming the image over
// stdin and reading text from stdout.
type Tesseract struct {
	path string
}

// NewTesseract returns a recognizer for the binary at path, or "tesseract"
// from PATH when empty.
func NewTesseract(path string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}

	return &Tesseract{path: path}
}

func (t *Tesseract) Name() string {
	return "tesseract"
}

// Recognize tries each segmentation mode until one returns non-blank text.
func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	var lastErr error

	for _, mode := range tesseractModes {
		text, err := t.run(ctx, img, mode)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %w", ErrOCRUnavailable, err)
			}

			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			lastErr = err

			continue
		}

		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to run tesseract: %w", lastErr)
	}

	return "", ErrNoTextDetected
}

func (t *Tesseract) run(ctx context.Context, img []byte, mode string) (string, error) {
	args := []string{"stdin", "stdout"}
	if mode != "" {
		args = append(args, "--psm", mode)
	}

	cmd := exec.CommandContext(ctx, t.path, args...)
	cmd.Stdin = bytes.NewReader(img)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("psm %q exited with code %d: %s", mode, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}

		return "", err
	}

	return stdout.String(), nil
}
