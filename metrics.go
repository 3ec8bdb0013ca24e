// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teal-finance/fxauth/session"
)

type ServerName string

func (ns ServerName) String() string {
	return string(ns)
}

// ExtractName keeps the last path element of str
// and drops the characters forbidden in a Prometheus namespace.
func ExtractName(str string) ServerName {
	str = strings.Trim(str, "/")
	if i := strings.LastIndex(str, "/"); i >= 0 {
		str = str[i+1:]
	}
	str = strings.ReplaceAll(str, "-", "_")
	re := regexp.MustCompile(`[^a-zA-Z0-9_]`)
	str = re.ReplaceAllLiteralString(str, "")
	return ServerName(str)
}

func (ns ServerName) RespectPromNamingRule() ServerName {
	str := ns.String()
	if str == "" {
		return "fxauth"
	}
	str = strings.ReplaceAll(str, "-", "_")
	if !unicode.IsLetter(rune(str[0])) {
		str = "a" + str
	}
	return ServerName(str)
}

// Metrics owns its own Prometheus registry,
// so that several servers may live in the same process (tests).
type Metrics struct {
	registry *prometheus.Registry

	connGauge  prometheus.Gauge
	iniCounter prometheus.Counter
	reqCounter prometheus.Counter
	resCounter prometheus.Counter
	hijCounter prometheus.Counter

	duration *prometheus.SummaryVec
	logins   *prometheus.CounterVec
	checks   *prometheus.CounterVec
}

// NewMetrics registers the connection, traffic and session metrics
// plus the Go, process and build-info collectors.
func NewMetrics(namespace ServerName) *Metrics {
	ns := namespace.RespectPromNamingRule()
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry:   reg,
		connGauge:  f.NewGauge(ns.gaugeOpts("in_flight_connections", "Number of current active connections")),
		iniCounter: f.NewCounter(ns.counterOpts("http", "conn_new_total", "Total initiated connections since startup")),
		reqCounter: f.NewCounter(ns.counterOpts("http", "conn_req_total", "Total requested connections since startup")),
		resCounter: f.NewCounter(ns.counterOpts("http", "conn_res_total", "Total responded connections since startup")),
		hijCounter: f.NewCounter(ns.counterOpts("http", "conn_hij_total", "Total hijacked connections since startup")),
		duration: f.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:   string(ns),
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Time to handle a client request",
			ConstLabels: nil,
			Objectives:  map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			MaxAge:      24 * time.Hour,
			AgeBuckets:  0,
			BufCap:      0,
		}, []string{"code", "route"}),
		logins: f.NewCounterVec(ns.counterOpts("session", "login_total", "Login attempts by result"), []string{"result"}),
		checks: f.NewCounterVec(ns.counterOpts("session", "check_total", "Session cookie checks by state"), []string{"state"}),
	}

	log.Info("Prometheus metrics namespace=" + ns.String())

	return m
}

func (ns ServerName) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   string(ns),
		Subsystem:   "http",
		Name:        name,
		Help:        help,
		ConstLabels: nil,
	}
}

func (ns ServerName) counterOpts(subsystem, name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   string(ns),
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: nil,
	}
}

// ObserveLogin implements session.Observer.
func (m *Metrics) ObserveLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// ObserveCheck implements session.Observer.
func (m *Metrics) ObserveCheck(st session.State) {
	m.checks.WithLabelValues(st.String()).Inc()
}

// ConnState counts the HTTP client connections.
func (m *Metrics) ConnState() func(net.Conn, http.ConnState) {
	return func(_ net.Conn, cs http.ConnState) {
		switch cs {
		// StateNew: the client just connects, the server expects its request.
		// Transition to either StateActive or StateClosed.
		case http.StateNew:
			m.connGauge.Inc()
			m.iniCounter.Inc()

		// StateActive: a request is being received.
		// Transition to StateClosed, StateHijacked or StateIdle, after the request is handled.
		case http.StateActive:
			m.reqCounter.Inc()

		// StateIdle: the server has handled the request and is in the keep-alive state.
		case http.StateIdle:
			m.resCounter.Inc()

		// StateHijacked: terminal state.
		case http.StateHijacked:
			m.connGauge.Dec()
			m.hijCounter.Inc()

		// StateClosed: terminal state.
		case http.StateClosed:
			m.connGauge.Dec()
		}
	}
}

// MiddlewareExportTrafficMetrics observes the handling duration by status code and route.
// The route is the chi route pattern, such as "/admin/*".
// The unrouted requests share the route label "other".
func (m *Metrics) MiddlewareExportTrafficMetrics(next http.Handler) http.Handler {
	log.Info("MiddlewareExportTrafficMetrics measures the request durations")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			rctx = chi.NewRouteContext()
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		}

		record := &statusRecorder{ResponseWriter: w, StatusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(record, r)
		duration := time.Since(start)

		code := StatusCodeStr(record.StatusCode)
		m.duration.WithLabelValues(code, routeLabel(rctx)).Observe(duration.Seconds())
	})
}

func routeLabel(rctx *chi.Context) string {
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "other"
}

// ProbeFunction returns a non-empty text when the probe fails.
type ProbeFunction func() []byte

// Handler serves the export endpoints:
//   - /metrics the Prometheus metrics,
//   - /health  200 when all liveness probes succeed,
//   - /ready   200 when all liveness and readiness probes succeed.
func (m *Metrics) Handler(liveness, readiness []ProbeFunction) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/health", probesHandler(liveness))
	r.Get("/ready", probesHandler(append(append([]ProbeFunction{}, liveness...), readiness...)))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		log.Warning(ipMethodURLSafe(r) + " on Exporter Server")
		WriteErr(w, r, http.StatusNotFound, "This is the Exporter/Health Server")
	})
	return r
}

func probesHandler(probes []ProbeFunction) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		for _, p := range probes {
			txt := p()
			if len(txt) != 0 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write(txt)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

// StartExporter starts in background the Prometheus/health server.
// The readiness also requires a configured admin password.
func (s *Server) StartExporter() {
	if s.promPort <= 0 || s.metrics == nil {
		log.Info("Disable Prometheus and health endpoints, export port=", s.promPort)
		return
	}

	addr := ":" + strconv.Itoa(s.promPort)
	h := s.metrics.Handler(nil, append([]ProbeFunction{s.adminProbe}, s.probes...))

	go serveEndpoints(addr, h)

	log.Info("Prometheus export http://localhost"+addr+" probes=", len(s.probes)+1)
}

func (s *Server) adminProbe() []byte {
	if s.manager.Configured() {
		return nil
	}
	return []byte("admin password not set")
}

func serveEndpoints(addr string, h http.Handler) {
	server := http.Server{
		Addr:              addr,
		Handler:           h,
		TLSConfig:         nil,
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       time.Second,
		MaxHeaderBytes:    444, // 444 bytes should be enough
		TLSNextProto:      nil,
		ConnState:         nil,
		ErrorLog:          nil,
		BaseContext:       nil,
		ConnContext:       nil,
	}
	err := server.ListenAndServe()
	panic(err)
}
