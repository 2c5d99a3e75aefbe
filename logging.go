package liquid

import "github.com/sirupsen/logrus"

// renderLogger is a thin, nil-safe wrapper around an optional
// *logrus.Logger (§5's ambient logging stance: diagnostic only, never
// load-bearing for correctness, silent unless a caller opts in). A zero
// value discards everything, so evaluator methods never need a nil
// check before logging.
type renderLogger struct {
	logger *logrus.Logger
}

func newRenderLogger(l *logrus.Logger) *renderLogger {
	return &renderLogger{logger: l}
}

func (l *renderLogger) Debugf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debugf(format, args...)
}
