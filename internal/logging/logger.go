package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds a structured JSON logger for the given component.
// The level can be overridden with the LOG_LEVEL environment variable.
func New(component string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetLevel(logrus.InfoLevel)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(lvl)
		}
	}

	log.AddHook(&componentHook{component: component})
	return log
}

// componentHook stamps every entry with the owning component name.
type componentHook struct {
	component string
}

func (h *componentHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *componentHook) Fire(entry *logrus.Entry) error {
	entry.Data["component"] = h.component
	return nil
}

// WithRequestID attaches a request id to a log entry, for HTTP request tracing.
func WithRequestID(log *logrus.Logger, requestID string) *logrus.Entry {
	if requestID == "" {
		return logrus.NewEntry(log)
	}
	return log.WithField("request_id", requestID)
}

// Discard returns a logger that drops everything. Used in tests and as a
// fallback when a caller passes a nil logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
