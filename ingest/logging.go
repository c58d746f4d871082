/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import "github.com/humaidq/healthscore/logging"

var logger = logging.Logger(logging.SourceIngest)
