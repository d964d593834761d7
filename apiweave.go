// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package apiweave provides a declarative routing and dispatch layer for web APIs.
package apiweave

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which is bridged to the
// globally registered OTel LoggerProvider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}
