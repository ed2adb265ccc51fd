// Package testutil holds small helpers shared by the test suites.
package testutil

import "log/slog"

// Logger returns a logger that discards everything, for wiring services
// under test.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
