package ssa

import "github.com/sirupsen/logrus"

// Logger is the narrow tracing surface used internally by the construction
// pipeline. It is deliberately not the user-facing diagnostics channel: a
// front end's own error reporting is an external collaborator's concern;
// this is only for construction-time tracing that helps a front-end author
// debug their own use of the API. The builder traces method declaration
// (NewMethodBuilder) and finalization (Dispose); phi insertion, interning
// and aliasing are not traced.
type Logger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
}

// noopLogger discards everything; it is the default so construction stays
// allocation-free in the hot path unless a caller opts into tracing.
type noopLogger struct{}

func (noopLogger) Tracef(string, ...any) {}
func (noopLogger) Debugf(string, ...any) {}

// logrusLogger adapts a *logrus.Entry to Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger returns a Logger backed by logrus, tagged with the given
// component name so multi-component traces (interner, ssa builder,
// rebuilder) can be told apart in the log stream.
func NewLogrusLogger(component string) Logger {
	return logrusLogger{entry: logrus.WithField("component", component)}
}

func (l logrusLogger) Tracef(format string, args ...any) { l.entry.Tracef(format, args...) }
func (l logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
