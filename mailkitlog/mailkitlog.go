// Package mailkitlog adapts a logrus.Logger to mailkit.Logger, the
// same wrapping shape flashmob-go-guerrilla/log uses to put logrus
// behind a small interface for its daemon. It deliberately does not
// import the root mailkit package: mailkit.Logger is satisfied
// structurally.
package mailkitlog

import "github.com/sirupsen/logrus"

// Logger wraps a *logrus.Logger so it satisfies mailkit.Logger.
type Logger struct {
	*logrus.Logger
}

// New returns a Logger with logrus defaults (text formatter, Info
// level). Callers wanting mailkit's boundary/stream diagnostics should
// raise the level to Debug.
func New() *Logger {
	return &Logger{Logger: logrus.New()}
}

// Debugf implements mailkit.Logger.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logger.Debugf(format, args...)
}
