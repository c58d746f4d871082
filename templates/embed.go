/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package templates

import "embed"

// Templates holds the page templates. Each file is a template named after
// its base name, and "header" and "footer" are shared by every page.
//
//go:embed *.html
var Templates embed.FS
