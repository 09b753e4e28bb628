package providers

import (
	"moneyprint/internal/structures"
	"net/http"
	"time"
)

// unmatchedEndpoint labels requests for paths no route serves, keeping the
// endpoint label bounded.
const unmatchedEndpoint = "unmatched"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// AccessMiddleware records request metrics per route and writes one access log
// line per request. Server errors are logged at error level.
func AccessMiddleware(logger Logger, metrics MetricsProviderInterface, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = unmatchedEndpoint
		}
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)

		logType := GetLogTypeByRequestType(r.Method)
		if sw.status >= http.StatusInternalServerError {
			logger.Errorf(logType, "%s %s %d %s", r.Method, r.URL.RequestURI(), sw.status, duration)
			return
		}
		logger.Infof(logType, "%s %s %d %s", r.Method, r.URL.RequestURI(), sw.status, duration)
	})
}
