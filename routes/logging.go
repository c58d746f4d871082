/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "github.com/humaidq/healthscore/logging"

var logger = logging.Logger(logging.SourceWeb)
