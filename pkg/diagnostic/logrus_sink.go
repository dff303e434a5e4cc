package diagnostic

import (
	"github.com/sirupsen/logrus"
)

// LogrusSink renders diagnostics through a *logrus.Logger, attaching
// file/line/col fields derived from source.File.FindLine the same way the
// teacher's SyntaxError.Error() composes a position prefix.
type LogrusSink struct {
	Logger *logrus.Logger
}

// NewLogrusSink constructs a sink over a freshly configured logrus logger
// (text formatter, Info level), the teacher's default logging setup.
func NewLogrusSink() *LogrusSink {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &LogrusSink{Logger: logger}
}

// Emit implements Sink.
func (s *LogrusSink) Emit(d Diagnostic) {
	entry := logrus.NewEntry(s.Logger)

	if d.File != nil && d.Span != nil {
		line := d.File.FindLine(*d.Span)
		entry = entry.WithFields(logrus.Fields{
			"file": d.File.Name(),
			"line": line.Number(),
			"col":  line.Column(d.Span.Start()),
		})
	}

	switch d.Level {
	case Warn:
		entry.Warn(d.Message)
	case Error:
		entry.Error(d.Message)
	default:
		entry.Info(d.Message)
	}
}

var _ Sink = (*LogrusSink)(nil)
