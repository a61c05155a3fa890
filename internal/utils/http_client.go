package utils

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"promptgen-backend/pkg/logger"
)

// LoggingTransport implements http.RoundTripper and logs each outbound call.
// Bodies are not logged: they carry OAuth codes, tokens and user prompts.
type LoggingTransport struct {
	Transport http.RoundTripper
}

// RoundTrip executes a single HTTP transaction and logs its outcome
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	resp, err := transport.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Duration("latency", time.Since(start)),
	}

	if err != nil {
		logger.Log.Warn("HTTP Error", append(fields, zap.Error(err))...)
		return nil, err
	}

	fields = append(fields, zap.Int("status", resp.StatusCode))
	if resp.StatusCode >= 400 {
		logger.Log.Warn("HTTP Response", fields...)
	} else {
		logger.Log.Debug("HTTP Response", fields...)
	}
	return resp, nil
}

// NewHTTPClient returns a new http.Client with logging enabled
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Transport: http.DefaultTransport,
		},
	}
}
