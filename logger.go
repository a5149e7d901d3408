package oauthproxy

import "log"

// Logger interface for pluggable logging.
// Implement this interface to integrate the proxy with your application's
// logging system (e.g., slog, zap). If not provided in Config, a default
// logger using log.Printf will be used.
//
// Nothing security-sensitive may pass through it: handlers log truncated
// state values at most and never log codes, tokens, or the client secret.
type Logger interface {
	Debug(msg string, args ...interface{}) // Debug-level logging for detailed troubleshooting
	Info(msg string, args ...interface{})  // Info-level logging for normal OAuth operations
	Warn(msg string, args ...interface{})  // Warn-level logging for state validation failures
	Error(msg string, args ...interface{}) // Error-level logging for misconfiguration and exchange failures
}

// defaultLogger implements Logger using standard library log
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	log.Printf("[DEBUG] "+msg, args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	log.Printf("[INFO] "+msg, args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	log.Printf("[WARN] "+msg, args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
}
