package runner

// Logger receives progress messages.
type Logger interface {
	Printf(format string, v ...any)
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...any) {}

func maskLogger(l Logger) Logger {
	if l != nil {
		return l
	}
	return nullLogger{}
}
