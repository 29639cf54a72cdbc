// Package http implements the external interfaces (spec.md §6):
// POST /script (blocking) and POST /script/stream (SSE), plus the
// operational endpoints (/healthz, /metrics) every production HTTP
// service in this style carries alongside its domain routes: a stdlib
// net/http server wrapped with request-ID, Prometheus, and OpenTelemetry
// middleware, never reaching for a web framework.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/awantoch/uiscript/config"
	"github.com/awantoch/uiscript/constants"
	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/engine"
	"github.com/awantoch/uiscript/event"
	"github.com/awantoch/uiscript/logger"
	"github.com/awantoch/uiscript/metrics"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/utils"
	"github.com/awantoch/uiscript/vision"
)

// initTracerFromConfig sets up OpenTelemetry tracing: "stdout" (default)
// or "otlp" exporter, selectable per spec.md §9/§10.
func initTracerFromConfig(cfg *config.Config) {
	serviceName := "uiscript"
	if cfg.Tracing != nil && cfg.Tracing.ServiceName != "" {
		serviceName = cfg.Tracing.ServiceName
	}
	res, _ := resource.New(context.Background(), resource.WithAttributes(semconv.ServiceName(serviceName)))

	var tp *trace.TracerProvider
	switch {
	case cfg.Tracing != nil && cfg.Tracing.Exporter == "otlp":
		endpoint := cfg.Tracing.Endpoint
		if endpoint == "" {
			endpoint = "http://localhost:4318"
		}
		if exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure()); err == nil {
			tp = trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
		}
	default:
		if exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint()); err == nil {
			tp = trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
		}
	}
	if tp != nil {
		otel.SetTracerProvider(tp)
	}
}

// requestIDMiddleware stamps every request with an X-Request-Id.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(constants.HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(constants.HeaderRequestID, reqID)
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware instruments HTTP handlers for Prometheus.
func metricsMiddleware(handlerName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()
		metrics.HTTPRequestsTotal.WithLabelValues(handlerName, r.Method, fmt.Sprintf("%d", rw.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(handlerName, r.Method).Observe(duration)
	})
}

// Server bundles the dependencies StartServer wires into the route table:
// the UI Driver and Vision facades spec.md §1 treats as external
// collaborators (provided by the caller — a real host integration in
// production, driver/fakedriver + vision/fakevision in this repository's
// own tests and examples, since no concrete host driver is in scope here).
type Server struct {
	Driver driver.Driver
	Vision vision.Vision
}

// NewMux builds the route table without starting a listener, so tests can
// drive it with httptest.
func (s *Server) NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/script", s.handleScript)
	mux.HandleFunc("/script/stream", s.handleScriptStream)
	return mux
}

// StartServer runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) StartServer(cfg *config.Config) error {
	initTracerFromConfig(cfg)

	mux := s.NewMux()
	wrapped := otelhttp.NewHandler(requestIDMiddleware(metricsMiddleware("root", mux)), "http.root")

	server := &http.Server{Addr: cfg.Addr(), Handler: wrapped}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting on %s", cfg.Addr())
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error: %v", err)
			return err
		}
		return nil
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error: %v", err)
			return err
		}
		return nil
	}
}

// decodeScript implements the request-body validation spec.md §6 requires
// verbatim: malformed body -> 400 with one of two fixed error strings.
// Script-internal failures are never HTTP errors (spec.md §6).
func decodeScript(r *http.Request) (model.Script, *utils.HTTPErrorResponse, int) {
	var raw struct {
		Steps     []json.RawMessage `json:"steps"`
		Variables map[string]any    `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return model.Script{}, &utils.HTTPErrorResponse{Error: "'steps' array is required"}, http.StatusBadRequest
	}
	if raw.Steps == nil {
		return model.Script{}, &utils.HTTPErrorResponse{Error: "'steps' array is required"}, http.StatusBadRequest
	}

	steps := make([]model.Step, len(raw.Steps))
	for i, rawStep := range raw.Steps {
		trimmed := trimLeadingSpace(rawStep)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return model.Script{}, &utils.HTTPErrorResponse{Error: "Each step must be a dictionary"}, http.StatusBadRequest
		}
		var step model.Step
		if err := json.Unmarshal(rawStep, &step); err != nil {
			return model.Script{}, &utils.HTTPErrorResponse{Error: "Each step must be a dictionary"}, http.StatusBadRequest
		}
		steps[i] = step
	}
	return model.Script{Steps: steps, Variables: raw.Variables}, nil, 0
}

func trimLeadingSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}

// handleScript implements POST /script: blocking, returns the Terminal
// Result as JSON (spec.md §6).
func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	script, errResp, code := decodeScript(r)
	if errResp != nil {
		utils.WriteHTTPError(w, errResp.Error, code)
		return
	}
	result := engine.Execute(r.Context(), s.Driver, s.Vision, script, event.NopSink{})
	utils.WriteHTTPJSON(w, result)
}

// handleScriptStream implements POST /script/stream: streams Step Events
// as SSE, then the full Terminal Result as the last event, then closes
// the connection (spec.md §6).
func (s *Server) handleScriptStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	script, errResp, code := decodeScript(r)
	if errResp != nil {
		utils.WriteHTTPError(w, errResp.Error, code)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteHTTPError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	// streamID tags this stream with a sortable ULID so a consumer can
	// order arrivals across reconnects even if persisted out of order
	// (spec.md §10 domain stack: ULID correlation), distinct from the
	// per-request uuid requestIDMiddleware already stamps.
	w.Header().Set("X-Stream-Id", ulid.Make().String())
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeSSE)
	w.WriteHeader(http.StatusOK)

	sink := event.NewChanSink(16)
	defer sink.Close()

	done := make(chan model.TerminalResult, 1)
	go func() {
		done <- engine.Execute(r.Context(), s.Driver, s.Vision, script, sink)
	}()

	for {
		select {
		case ev, ok := <-sink.Events():
			if !ok {
				return
			}
			if err := event.WriteSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		case result := <-done:
			// Drain any already-buffered events before the terminal frame,
			// preserving step_start/step_complete-before-done ordering
			// (spec.md §5).
			draining := true
			for draining {
				select {
				case ev := <-sink.Events():
					if err := event.WriteSSE(w, ev); err != nil {
						return
					}
					flusher.Flush()
				default:
					draining = false
				}
			}
			payload, _ := json.Marshal(result)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			return
		case <-r.Context().Done():
			return
		}
	}
}
