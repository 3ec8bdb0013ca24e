// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package fxauth serves the login, logout and session endpoints
// of a single-admin website and gates its admin routes,
// including middlewares to manage CORS, secure headers,
// request logs, Prometheus export and PProf.
package fxauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/teal-finance/emo"

	"github.com/teal-finance/fxauth/chain"
	"github.com/teal-finance/fxauth/notifier"
	"github.com/teal-finance/fxauth/salt"
	"github.com/teal-finance/fxauth/session"
)

var log = emo.NewZone("fxauth")

const (
	shutdownTimeout = 5 * time.Second
	notifyTimeout   = 10 * time.Second
)

type Server struct {
	Writer Writer

	manager  *session.Manager
	metrics  *Metrics
	notifier notifier.Notifier

	admin   session.Credentials
	urls    []*url.URL
	origins []string
	probes  []ProbeFunction

	docURL  string
	name    ServerName
	version string

	salt    salt.Salt
	hasSalt bool

	maxAgeDays      int
	pprofPort       int
	promPort        int
	reqLogVerbosity int
	devMode         bool
}

// New creates the server from the options.
// Out of the development mode, WithSalt is required.
// New panics on inconsistent options: this is a programming error.
func New(opts ...Option) *Server {
	s := Server{
		Writer:          "",
		manager:         nil,
		metrics:         nil,
		notifier:        nil,
		admin:           session.Credentials{},
		urls:            nil,
		origins:         nil,
		probes:          nil,
		docURL:          "",
		name:            "fxauth",
		version:         "",
		salt:            salt.Salt{},
		hasSalt:         false,
		maxAgeDays:      session.DefaultMaxAgeDays,
		pprofPort:       0,
		promPort:        0,
		reqLogVerbosity: 1,
		devMode:         false,
	}

	for _, opt := range opts {
		if opt == nil {
			panic("fxauth.New(): nil option")
		}
		opt(&s)
	}

	if !s.hasSalt {
		if !s.devMode {
			panic("fxauth.WithSalt() is required out of the development mode")
		}
		s.salt = salt.Dev
	}

	s.Writer = NewWriter(s.docURL)

	if s.devMode {
		s.origins = appendOrigins(s.origins, DevOrigins...)
	}

	sessionOpts := []session.Option{session.WithMaxAge(s.maxAgeDays)}
	if s.promPort > 0 {
		s.metrics = NewMetrics(s.name)
		sessionOpts = append(sessionOpts, session.WithObserver(s.metrics))
	}

	m, err := session.New(s.salt, s.admin, sessionOpts...)
	if err != nil {
		panic(fmt.Sprint("Cannot derive the session key: ", err))
	}
	s.manager = m

	return &s
}

// DevOrigins provides the development origins:
//   - yarn run vite --port 3000
//   - yarn run vite preview --port 5000
//   - 192.168.1.x + any port on tablet
var DevOrigins = []string{"http://localhost:", "http://192.168.1."}

// Manager returns the session manager, to be used by the admin handlers.
func (s *Server) Manager() *session.Manager {
	return s.manager
}

// Metrics returns nil when the Prometheus export is disabled.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// IsLoggedIn reports whether the request comes from the logged-in admin.
func (s *Server) IsLoggedIn(r *http.Request) bool {
	return s.manager.IsLoggedIn(r)
}

// notify sends the message in background: the login response does not wait.
func (s *Server) notify(msg string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, msg); err != nil {
			log.Warning("Notify:", err)
		}
	}()
}

// Middlewares returns the middleware chain of the main server
// and the ConnState callback counting the connections.
func (s *Server) Middlewares() (chain.Chain, func(net.Conn, http.ConnState)) {
	var connState func(net.Conn, http.ConnState)
	var traffic chain.Middleware
	if s.metrics != nil {
		connState = s.metrics.ConnState()
		traffic = s.metrics.MiddlewareExportTrafficMetrics
	}

	c := chain.New(
		MiddlewareRejectUnprintableURI,
		s.RequestLogger(),
		traffic,
		s.ServerSetter(),
		MiddlewareSecureHTTPHeader(!s.devMode),
		s.CORSHandler(),
	)

	return c, connState
}

// Run runs the HTTP server in foreground until ctx is canceled,
// then shuts it down gracefully.
// Run also starts in background the PProf server (if pprof port > 0)
// and the Prometheus/health server (if export port > 0).
func (s *Server) Run(ctx context.Context, h http.Handler, port int) error {
	StartPProfServer(s.pprofPort)
	s.StartExporter()

	middlewares, connState := s.Middlewares()
	server := newHTTPServer(middlewares.Then(h), port, connState)

	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe() }()

	log.Init("Server listening on http://localhost" + server.Addr)

	select {
	case err := <-done:
		log.Error("Install ncat and ss: sudo apt install ncat iproute2")
		log.Error(fmt.Sprintf("Try to listen port %v: sudo ncat -l %v", port, port))
		log.Error(fmt.Sprintf("Get the process using port %v: sudo ss -pan | grep %v", port, port))
		return err

	case <-ctx.Done():
	}

	log.Info("Shutting down the server:", context.Cause(ctx))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err2 := <-done; !errors.Is(err2, http.ErrServerClosed) && err == nil {
		err = err2
	}
	return err
}

func newHTTPServer(h http.Handler, port int, connState func(net.Conn, http.ConnState)) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           h,
		TLSConfig:         nil,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
		MaxHeaderBytes:    16 << 10, // cookie + usual headers
		TLSNextProto:      nil,
		ConnState:         connState,
		ErrorLog:          nil,
		BaseContext:       nil,
		ConnContext:       nil,
	}
}
