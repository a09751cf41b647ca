// Package logger provides structured logging for the application on top of
// log/slog: JSON or text output, a configurable level, optional rotating
// file output, and loggers carried through context.Context.
package logger
