/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const minLabelLength = 3

// candidatePatterns are applied independently, in order, over the whole
// text. Matches from different patterns are not deduplicated.
var candidatePatterns = []*regexp.Regexp{
	// "Glucose: 95 mg/dL", also tolerates "=" and plain spaces
	regexp.MustCompile(`(?i)([a-z\s]+)[:\s=]+([0-9]+\.?[0-9]*)\s*([a-z/%]*)`),
	// "Glucose : 95"
	regexp.MustCompile(`(?i)([a-z\s]+)\s*:\s*([0-9]+\.?[0-9]*)\s*([a-z/%]*)`),
	// "Glucose = 95"
	regexp.MustCompile(`(?i)([a-z\s]+)\s*=\s*([0-9]+\.?[0-9]*)\s*([a-z/%]*)`),
	// "Glucose 95 mg/dL"
	regexp.MustCompile(`(?i)([a-z\s]{3,})\s+([0-9]+\.?[0-9]*)\s+([a-z/%]+)`),
	// "Glucose\t\t95"
	regexp.MustCompile(`(?i)([a-z\s]+)[\t\s]{2,}([0-9]+\.?[0-9]*)\s*([a-z/%]*)`),
	// "Glucose 95", no unit
	regexp.MustCompile(`(?i)([a-z\s]{5,})\s+([0-9]+\.?[0-9]*)`),
}

// Candidates returns a lazy sequence of (label, value, unit) candidates found
// in text. Every call to the returned sequence rescans the text, so it can be
// ranged over more than once.
func Candidates(text string) iter.Seq[Candidate] {
	text = normalizeText(text)

	return func(yield func(Candidate) bool) {
		for _, re := range candidatePatterns {
			for pos := 0; pos < len(text); {
				loc := re.FindStringSubmatchIndex(text[pos:])
				if loc == nil {
					break
				}

				sub := text[pos:]
				pos += loc[1]

				c, ok := candidateFromMatch(sub, loc)
				if !ok {
					continue
				}

				if !yield(c) {
					return
				}
			}
		}
	}
}

func candidateFromMatch(s string, loc []int) (Candidate, bool) {
	label := strings.ToLower(strings.TrimSpace(s[loc[2]:loc[3]]))
	if len(label) < minLabelLength {
		return Candidate{}, false
	}

	value, err := strconv.ParseFloat(s[loc[4]:loc[5]], 64)
	if err != nil {
		return Candidate{}, false
	}

	var unit string
	if len(loc) > 7 && loc[6] >= 0 {
		unit = strings.TrimSpace(s[loc[6]:loc[7]])
	}

	return Candidate{Label: label, Value: value, Unit: unit}, true
}

// normalizeText folds compatibility forms (fullwidth digits, ligatures) and
// strips combining marks that OCR engines tend to emit.
func normalizeText(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}

	return out
}
