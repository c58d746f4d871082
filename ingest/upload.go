/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxUploadBytes is the default request body limit.
const DefaultMaxUploadBytes = 10 << 20

// FileType is an accepted upload kind, named by its extension.
type FileType string

// Accepted file types.
const (
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
	FileTypeCSV  FileType = "csv"
)

var allowedTypes = map[FileType]bool{
	FileTypePDF:  true,
	FileTypePNG:  true,
	FileTypeJPG:  true,
	FileTypeJPEG: true,
	FileTypeCSV:  true,
}

// IsImage reports whether the type goes through OCR.
func (t FileType) IsImage() bool {
	return t == FileTypePNG || t == FileTypeJPG || t == FileTypeJPEG
}

// DetectType returns the file type from the name's extension.
func DetectType(name string) (FileType, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return "", false
	}

	t := FileType(strings.ToLower(name[i+1:]))

	return t, allowedTypes[t]
}

// File is one uploaded document held in memory.
type File struct {
	Name string
	Type FileType
	Data []byte
}

// NewFile validates the extension of name and sanitizes it for display and
// storage.
func NewFile(name string, data []byte) (File, error) {
	t, ok := DetectType(name)
	if !ok {
		return File{}, &FileError{Name: name, Err: ErrUnsupportedType}
	}

	return File{Name: SanitizeFilename(name), Type: t, Data: data}, nil
}

// CheckSelection validates the submitted file names before any content is
// read. An empty list means nothing was uploaded; a list of blank names
// means the form was submitted without a selection.
func CheckSelection(names []string) error {
	if len(names) == 0 {
		return ErrNoFiles
	}

	blank := true
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			blank = false

			break
		}
	}

	if blank {
		return ErrNoFilesSelected
	}

	for _, n := range names {
		if _, ok := DetectType(n); !ok {
			name := n
			if strings.TrimSpace(name) == "" {
				name = "unknown"
			}

			return &FileError{Name: name, Err: ErrUnsupportedType}
		}
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client supplied name to a safe ASCII base name.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "" {
		return "unknown_file"
	}

	return name
}
