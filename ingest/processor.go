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

	"golang.org/x/sync/errgroup"

	"github.com/humaidq/healthscore/analysis"
)

// DefaultConcurrency bounds how many files are processed at once.
const DefaultConcurrency = 4

// Result is what one file contributed to an analysis.
type Result struct {
	Filename   string             `json:"filename"`
	FileType   FileType           `json:"file_type"`
	Biomarkers map[string]float64 `json:"biomarkers"`
	Warnings   []string           `json:"warnings,omitempty"`
	Readings   []analysis.Reading `json:"-"`
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Processor turns uploaded files into canonical readings.
type Processor struct {
	analyzer    *analysis.Analyzer
	ocr         Recognizer
	concurrency int
}

// NewProcessor returns a processor. A nil recognizer disables image OCR;
// images then produce a warning and no readings.
func NewProcessor(analyzer *analysis.Analyzer, ocr Recognizer, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Processor{analyzer: analyzer, ocr: ocr, concurrency: concurrency}
}

// Process reads one file. Extraction problems never fail the file; they
// become warnings on the result.
func (p *Processor) Process(ctx context.Context, f File) Result {
	res := Result{Filename: f.Name, FileType: f.Type}

	switch {
	case f.Type == FileTypeCSV:
		rows, err := ReadTable(bytes.NewReader(f.Data))
		if err != nil {
			res.warn("table could not be fully read: %v", err)
		}

		res.Readings = p.analyzer.ReadRows(f.Name, rows)
	case f.Type == FileTypePDF:
		text, skipped, err := PDFText(f.Data)
		if err != nil {
			res.warn("PDF text could not be extracted: %v", err)
		}

		if skipped > 0 {
			res.warn("%d PDF page(s) could not be read", skipped)
		}

		res.Readings = p.analyzer.ReadText(f.Name, text)
	case f.Type.IsImage():
		text, err := p.recognize(ctx, f.Data)
		if err != nil {
			res.warn("%s", ocrWarning(err))
		}

		res.Readings = p.analyzer.ReadText(f.Name, text)
	}

	res.Biomarkers = make(map[string]float64, len(res.Readings))
	for _, r := range res.Readings {
		res.Biomarkers[r.Key] = r.Value
	}

	logger.Info("processed file", "file", f.Name, "type", f.Type, "readings", len(res.Readings), "warnings", len(res.Warnings))

	return res
}

func (p *Processor) recognize(ctx context.Context, data []byte) (string, error) {
	if p.ocr == nil {
		return "", ErrOCRUnavailable
	}

	img, err := PrepareImage(data)
	if err != nil {
		return "", err
	}

	return p.ocr.Recognize(ctx, img)
}

func ocrWarning(err error) string {
	switch {
	case errors.Is(err, ErrOCRUnavailable):
		return "Image OCR is not available on this server. Please use CSV or PDF files."
	case errors.Is(err, ErrNoTextDetected):
		return "No readable text detected in image. Please ensure the image contains clear, readable text."
	default:
		return fmt.Sprintf("Image processing failed: %v", err)
	}
}

// ProcessAll processes files concurrently and returns results in input
// order. It only fails when ctx is cancelled.
func (p *Processor) ProcessAll(ctx context.Context, files []File) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = p.Process(gctx, f)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to process files: %w", err)
	}

	return results, nil
}

// Readings returns the per-file readings ready for merging.
func Readings(results []Result) [][]analysis.Reading {
	out := make([][]analysis.Reading, 0, len(results))
	for _, r := range results {
		out = append(out, r.Readings)
	}

	return out
}
