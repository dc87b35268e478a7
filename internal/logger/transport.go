package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport is an http.RoundTripper that tags every outbound request with an
// X-Request-ID and logs method, path, status and duration.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	reqID := RequestIDFrom(req.Context())
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := base.RoundTrip(req)

	log := L().With(
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("duration_ms", time.Since(start)),
	)

	if err != nil {
		log.Warn("outbound request failed", zap.Error(err))
		return nil, err
	}

	log.Info("outbound request", zap.Int("status", resp.StatusCode))
	return resp, nil
}
