/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Images are scaled so both sides fall within these bounds before OCR.
const (
	minOCRSide = 300
	maxOCRSide = 3000
)

// Recognizer turns a prepared PNG image into text.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (string, error)
}

// PrepareImage decodes a PNG or JPEG, converts it to RGBA, rescales it into
// the OCR size bounds and re-encodes it as PNG.
func PrepareImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errInvalidImageDim
	}

	w, h := ocrSize(b.Dx(), b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// ocrSize scales small images up until both sides reach the minimum, and
// large images down until both fit the maximum, keeping the aspect ratio.
func ocrSize(w, h int) (int, int) {
	fw, fh := float64(w), float64(h)

	switch {
	case w < minOCRSide || h < minOCRSide:
		scale := max(minOCRSide/fw, minOCRSide/fh)

		return int(fw * scale), int(fh * scale)
	case w > maxOCRSide || h > maxOCRSide:
		scale := min(maxOCRSide/fw, maxOCRSide/fh)

		return max(1, int(fw*scale)), max(1, int(fh*scale))
	default:
		return w, h
	}
}
