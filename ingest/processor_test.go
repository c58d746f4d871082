// SPDX-FileCopyrightText: 2026 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/registry"
)

type stubRecognizer struct {
	text  string
	err   error
	calls atomic.Int32
}

func (s *stubRecognizer) Name() string { return "stub" }

func (s *stubRecognizer) Recognize(_ context.Context, _ []byte) (string, error) {
	s.calls.Add(1)

	return s.text, s.err
}

func newTestProcessor(ocr Recognizer) *Processor {
	return NewProcessor(analysis.NewAnalyzer(registry.MustDefault()), ocr, 2)
}

func mustFile(t *testing.T, name string, data []byte) File {
	t.Helper()

	f, err := NewFile(name, data)
	if err != nil {
		t.Fatalf("NewFile(%q) failed: %v", name, err)
	}

	return f
}

func TestProcessCSV(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(nil)
	res := p.Process(context.Background(), mustFile(t, "labs.csv", []byte("Biomarker,Value\nGlucose,95\nTSH,2.1\n")))

	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	if res.Biomarkers["glucose"] != 95 || res.Biomarkers["tsh"] != 2.1 {
		t.Fatalf("expected glucose and tsh readings, got %v", res.Biomarkers)
	}

	for _, r := range res.Readings {
		if r.Source != "labs.csv" {
			t.Fatalf("expected source labs.csv, got %q", r.Source)
		}
	}
}

func TestProcessInvalidPDF(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(nil)
	res := p.Process(context.Background(), mustFile(t, "report.pdf", []byte("not a pdf")))

	if len(res.Warnings) == 0 {
		t.Fatalf("expected a warning for an unreadable PDF")
	}

	if len(res.Readings) != 0 || res.Biomarkers == nil {
		t.Fatalf("expected empty non-nil biomarkers, got %v", res.Biomarkers)
	}
}

func TestProcessImageWithoutOCR(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(nil)
	res := p.Process(context.Background(), mustFile(t, "scan.png", encodePNG(t, 400, 400)))

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "not available") {
		t.Fatalf("expected OCR unavailable warning, got %v", res.Warnings)
	}
}

func TestProcessImageWithOCR(t *testing.T) {
	t.Parallel()

	ocr := &stubRecognizer{text: "Fasting Glucose: 101 mg/dL\nHemoglobin: 13.5 g/dL\n"}
	p := newTestProcessor(ocr)
	res := p.Process(context.Background(), mustFile(t, "scan.jpg", encodePNG(t, 400, 400)))

	if ocr.calls.Load() != 1 {
		t.Fatalf("expected one OCR call, got %d", ocr.calls.Load())
	}

	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	if res.Biomarkers["glucose"] != 101 {
		t.Fatalf("expected glucose 101, got %v", res.Biomarkers)
	}
}

func TestProcessImageNoText(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(&stubRecognizer{err: ErrNoTextDetected})
	res := p.Process(context.Background(), mustFile(t, "scan.png", encodePNG(t, 400, 400)))

	if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "No readable text") {
		t.Fatalf("expected no-text warning, got %v", res.Warnings)
	}
}

func TestProcessAllPreservesOrder(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(nil)
	files := []File{
		mustFile(t, "a.csv", []byte("name,value\nGlucose,90\n")),
		mustFile(t, "b.pdf", []byte("garbage")),
		mustFile(t, "c.csv", []byte("name,value\nGlucose,110\n")),
	}

	results, err := p.ProcessAll(context.Background(), files)
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	for i, want := range []string{"a.csv", "b.pdf", "c.csv"} {
		if results[i].Filename != want {
			t.Fatalf("expected result %d to be %s, got %s", i, want, results[i].Filename)
		}
	}

	report := p.analyzer.Analyze(Readings(results)...)
	if len(report.Biomarkers) != 1 || report.Biomarkers[0].Value != 100 {
		t.Fatalf("expected merged glucose of 100, got %+v", report.Biomarkers)
	}

	if report.SourceCount != 3 {
		t.Fatalf("expected 3 merged sources, got %d", report.SourceCount)
	}
}

func TestProcessAllCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProcessor(nil).ProcessAll(ctx, []File{mustFile(t, "a.csv", []byte("a,b\n"))})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
