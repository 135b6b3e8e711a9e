package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/ports"
	"github.com/legalsift/docsift/internal/observability/metrics"
)

const serviceName = "docsift-api"

type Router struct {
	service ports.DocumentService
	auth    authenticator
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger

	rateLimitRPS    float64
	rateLimitBurst  int
	maxInFlight     int
	maxInFlightWait time.Duration
	uploadMaxBytes  int64
}

// NewRouter builds the REST surface over the document service. httpMetrics may be nil.
func NewRouter(cfg config.Config, service ports.DocumentService, httpMetrics *metrics.HTTPServerMetrics, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	uploadMaxBytes := cfg.UploadMaxBytes
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = 10 << 20
	}
	return &Router{
		service:         service,
		auth:            newAuthenticator(cfg.AuthJWTSecret),
		metrics:         httpMetrics,
		logger:          logger,
		rateLimitRPS:    cfg.APIRateLimitRPS,
		rateLimitBurst:  cfg.APIRateLimitBurst,
		maxInFlight:     cfg.APIMaxInFlight,
		maxInFlightWait: cfg.APIMaxInFlightWait,
		uploadMaxBytes:  uploadMaxBytes,
	}
}

type route struct {
	method  string
	pattern string
	public  bool
	handler http.HandlerFunc
}

func (rt *Router) routes() []route {
	routes := []route{
		{method: http.MethodGet, pattern: "/healthz", public: true, handler: rt.healthz},
		{method: http.MethodGet, pattern: "/openapi.yaml", public: true, handler: serveOpenAPI},
		{method: http.MethodPost, pattern: "/v1/documents", handler: rt.uploadDocument},
		{method: http.MethodGet, pattern: "/v1/documents", handler: rt.listDocuments},
		{method: http.MethodGet, pattern: "/v1/documents/{id}", handler: rt.getDocument},
		{method: http.MethodDelete, pattern: "/v1/documents/{id}", handler: rt.deleteDocument},
		{method: http.MethodPost, pattern: "/v1/documents/{id}/analyze", handler: rt.analyzeDocument},
		{method: http.MethodGet, pattern: "/v1/documents/{id}/analysis", handler: rt.getAnalysis},
		{method: http.MethodGet, pattern: "/v1/documents/{id}/analysis.xlsx", handler: rt.downloadAnalysisWorkbook},
		{method: http.MethodPost, pattern: "/v1/documents/{id}/translate", handler: rt.translateDocument},
		{method: http.MethodPost, pattern: "/v1/documents/{id}/summary", handler: rt.summarizeDocument},
		{method: http.MethodPost, pattern: "/v1/documents/{id}/share", handler: rt.shareDocument},
		{method: http.MethodDelete, pattern: "/v1/cases/{caseId}/documents", handler: rt.deleteCaseDocuments},
	}
	if rt.metrics != nil {
		routes = append(routes, route{method: http.MethodGet, pattern: "/metrics", public: true, handler: rt.metrics.Handler().ServeHTTP})
	}
	return routes
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, r := range rt.routes() {
		var h http.Handler = r.handler
		if !r.public {
			h = rt.auth.middleware(h)
		}
		mux.Handle(r.method+" "+r.pattern, h)
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.maxInFlightWait, rt.rejected)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rt.rejected)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) rejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain error kinds to statuses. Server-side failures are
// logged and answered with the generic status text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_error",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
