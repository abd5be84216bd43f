package logging

import "go.uber.org/zap"

// New builds the process logger: structured JSON on stderr, one named
// logger per binary. Unexpected failures keep the default stacktrace
// behavior on Error level.
func New(service string) *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return log.Named(service)
}
