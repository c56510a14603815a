// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with JSON error responses so
// handlers can report a failure to both the operator and the client in
// one call. The log message carries the internal detail; the user
// message is what goes over the wire.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal failure and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusInternalServerError, logMsg, err, userMsg)
}

// LogBadRequest logs a client error and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusBadRequest, logMsg, err, userMsg)
}

// LogUnauthorized logs a missing or invalid session and responds 401 with userMsg.
func (e *ErrorLogger) LogUnauthorized(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusUnauthorized, logMsg, err, userMsg)
}

// LogForbidden logs a denied action and responds 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusForbidden, logMsg, err, userMsg)
}

// LogNotFound logs a missing resource and responds 404 with userMsg.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusNotFound, logMsg, err, userMsg)
}

// LogConflict logs a uniqueness or state conflict and responds 409 with userMsg.
func (e *ErrorLogger) LogConflict(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusConflict, logMsg, err, userMsg)
}

// LogTooManyRequests logs a rate-limited request and responds 429 with userMsg.
func (e *ErrorLogger) LogTooManyRequests(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusTooManyRequests, logMsg, err, userMsg)
}

// LogBadGateway logs an upstream dependency failure and responds 502 with userMsg.
func (e *ErrorLogger) LogBadGateway(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.write(w, r, http.StatusBadGateway, logMsg, err, userMsg)
}

func (e *ErrorLogger) write(w http.ResponseWriter, r *http.Request, status int, logMsg string, err error, userMsg string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		e.log.Error(logMsg, fields...)
	} else {
		e.log.Warn(logMsg, fields...)
	}

	WriteError(w, status, userMsg)
}
