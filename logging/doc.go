// Package logging provides the Logger interface plus slog-backed and no-op
// implementations shared by the framework and the studio agents.
package logging
