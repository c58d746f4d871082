/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/humaidq/healthscore/analysis"
)

const sniffSampleSize = 1024

var utf8BOM = []byte("\ufeff")

var (
	nameHeaders  = []string{"biomarker", "parameter", "name", "test"}
	valueHeaders = []string{"value", "result", "level"}
	delimiters   = []rune{',', ';', '\t', '|'}
)

// ReadTable reads a delimited name/value table. The delimiter is sniffed
// from the header line. Name and value columns are found by header and
// default to the first two columns. Rows that are short or whose value is
// not a finite number are skipped. On a parse error the rows read so far
// are returned with the error.
func ReadTable(r io.Reader) ([]analysis.Row, error) {
	br := bufio.NewReader(r)

	sample, err := br.Peek(sniffSampleSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	sample = bytes.Clone(sample)

	if bytes.HasPrefix(sample, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}

		sample = sample[len(utf8BOM):]
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(sample)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyTable
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read table header: %w", err)
	}

	nameCol := headerIndex(header, nameHeaders, 0)
	valueCol := headerIndex(header, valueHeaders, 1)

	var rows []analysis.Row

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return rows, fmt.Errorf("failed to read table row: %w", err)
		}

		if len(record) <= max(nameCol, valueCol) {
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)

		if name == "" || err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
			continue
		}

		rows = append(rows, analysis.Row{Name: name, Value: value})
	}

	return rows, nil
}

// sniffDelimiter picks the candidate delimiter occurring most often in the
// header line, preferring a comma on ties.
func sniffDelimiter(sample []byte) rune {
	line, _, _ := bytes.Cut(sample, []byte("\n"))

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func headerIndex(header, names []string, fallback int) int {
	for i, col := range header {
		if slices.Contains(names, strings.ToLower(strings.TrimSpace(col))) {
			return i
		}
	}

	return fallback
}
