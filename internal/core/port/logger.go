package port

// Fields carries structured data into a log line.
type Fields map[string]interface{}

// LoggerPort is the logging contract every adapter and use case talks to.
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields returns a child logger with the fields already attached.
	WithFields(fields Fields) LoggerPort
}
