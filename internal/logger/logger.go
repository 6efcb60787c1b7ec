// Package logger provides structured logging via the Uber zap library
// and an HTTP middleware that logs every handled request.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Log is the global SugaredLogger instance. It must be initialized
// via Init() before use.
var Log *zap.SugaredLogger

// Init configures the global logger with the given level
// ("debug", "info", "warn", "error", "fatal").
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered log entries. Call it on shutdown.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}

	return nil
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// WithLoggingHTTPMiddleware logs the method, URI, response status,
// payload size and duration of every request passing through it.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	logFn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		data := &responseData{}
		lw := loggingResponseWriter{
			ResponseWriter: w,
			responseData:   data,
		}
		h.ServeHTTP(&lw, r)

		Log.Infoln(
			"uri", r.RequestURI,
			"method", r.Method,
			"status", data.status,
			"duration", time.Since(start),
			"size", data.size,
		)
	}

	return http.HandlerFunc(logFn)
}
