// Package logging builds the zerolog loggers used across scout.
//
// Logs always go to stderr so that command output on stdout stays machine-readable.
// The logger for an invocation travels on the context; packages retrieve it with
// FromContext and tag their lines with ComponentLogger.
package logging
