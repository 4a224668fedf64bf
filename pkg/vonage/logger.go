package vonage

import "github.com/go-logr/logr"

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// logrLogger adapts a logr.Logger to Logger.
type logrLogger struct {
	log logr.Logger
}

// NewLogrLogger adapts a logr.Logger. Debug maps to V(1), Warn to V(0) with a
// severity field, and Error to logr's error path.
func NewLogrLogger(log logr.Logger) Logger {
	return &logrLogger{log: log}
}

func (l *logrLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.V(1).Info(msg, keysAndValues(fields)...)
}

func (l *logrLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, keysAndValues(fields)...)
}

func (l *logrLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Info(msg, append(keysAndValues(fields), "severity", "warning")...)
}

func (l *logrLogger) Error(msg string, fields map[string]interface{}) {
	var err error

	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		if e, ok := v.(error); ok && k == "error" {
			err = e

			continue
		}

		kv = append(kv, k, v)
	}

	l.log.Error(err, msg, kv...)
}

func keysAndValues(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}

	return kv
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
