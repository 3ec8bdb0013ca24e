// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/teal-finance/fxauth/chain"
	"github.com/teal-finance/fxauth/notifier"
	"github.com/teal-finance/fxauth/salt"
	"github.com/teal-finance/fxauth/session"
)

type Option func(*Server)

func WithDocURL(docURL string) Option {
	return func(s *Server) {
		s.docURL = docURL
	}
}

// WithDev enables the development mode:
// constant salt (unless WithSalt), no HSTS, CORS accepts DevOrigins.
func WithDev(enable ...bool) Option {
	devMode := true
	if len(enable) > 0 {
		devMode = enable[0]

		if len(enable) >= 2 {
			panic("fxauth.WithDev() must be called with zero or one argument")
		}
	}

	return func(s *Server) {
		s.devMode = devMode
	}
}

// WithAdmin sets the admin credentials.
// A nil password disables the login: the admin routes become unreachable.
func WithAdmin(username string, password *string) Option {
	if username == "" {
		panic("fxauth.WithAdmin(): empty username")
	}

	return func(s *Server) {
		s.admin = session.Credentials{Username: &username, Password: password}
	}
}

// WithSalt sets the durable salt, see salt.Obtain.
func WithSalt(st salt.Salt) Option {
	return func(s *Server) {
		s.salt = st
		s.hasSalt = true
	}
}

// WithMaxAge sets the session window in days (default 14).
func WithMaxAge(days int) Option {
	if days <= 0 {
		panic(fmt.Sprint("fxauth.WithMaxAge(): want positive number of days but got ", days))
	}

	return func(s *Server) {
		s.maxAgeDays = days
	}
}

// WithNotifier alerts the admin on every login attempt.
func WithNotifier(n notifier.Notifier) Option {
	return func(s *Server) {
		s.notifier = n
	}
}

func WithPProf(port int) Option {
	return func(s *Server) {
		s.pprofPort = port
	}
}

// WithProm enables the Prometheus export on the given port.
// The namespace prefixes the metric names (default "fxauth").
func WithProm(port int, namespace string) Option {
	return func(s *Server) {
		s.promPort = port
		if namespace != "" {
			s.name = ExtractName(namespace)
		}
	}
}

// WithReadinessProbes adds probes to the "/ready" endpoint of the export server.
func WithReadinessProbes(probes ...ProbeFunction) Option {
	return func(s *Server) {
		s.probes = append(s.probes, probes...)
	}
}

// WithReqLogs sets the verbosity of the request logs:
// 0 = none, 1 = sanitized URL (default), 2 = also the status code and duration.
func WithReqLogs(verbosity ...int) Option {
	v := 1
	if len(verbosity) > 0 {
		if len(verbosity) >= 2 {
			panic("fxauth.WithReqLogs() must be called with zero or one argument")
		}
		v = verbosity[0]
		if v < 0 || v > 2 {
			panic(fmt.Sprintf("fxauth.WithReqLogs(verbosity=%v) currently accepts values [0, 1, 2] only", v))
		}
	}

	return func(s *Server) { s.reqLogVerbosity = v }
}

func (s *Server) RequestLogger() chain.Middleware {
	switch s.reqLogVerbosity {
	case 1:
		return MiddlewareLogRequestSafe
	case 2:
		return MiddlewareLogDurationSafe
	}
	return nil // do not log incoming HTTP requests
}

func WithServerHeader(program string) Option {
	return func(s *Server) {
		s.version = Version(program, "")
	}
}

func (s *Server) ServerSetter() chain.Middleware {
	if s.version == "" {
		return nil
	}
	return MiddlewareServerHeader(s.version)
}

// WithURLs sets the public URLs of the website: the CORS origins.
func WithURLs(addresses ...string) Option {
	urls := ParseURLs(addresses)

	return func(s *Server) {
		s.urls = urls
		for _, u := range urls {
			s.origins = appendOrigins(s.origins, u.Scheme+"://"+u.Host)
		}
	}
}

func (s *Server) CORSHandler() chain.Middleware {
	if len(s.origins) == 0 {
		return nil
	}
	return MiddlewareCORS(s.origins, s.devMode)
}

// ParseURLs converts addresses into URLs, inserting "http://" when the scheme is missing.
func ParseURLs(addresses []string) []*url.URL {
	urls := make([]*url.URL, 0, len(addresses))

	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if !strings.HasPrefix(a, "https://") && !strings.HasPrefix(a, "http://") {
			a = "http://" + a
		}

		u, err := url.Parse(a)
		if err != nil {
			panic(fmt.Sprint("WithURLs: ", err))
		}
		if u.Host == "" {
			panic(fmt.Sprint("WithURLs: missing host in ", a))
		}
		urls = append(urls, u)
	}

	return urls
}

func appendOrigins(origins []string, more ...string) []string {
	for _, o := range more {
		found := false
		for _, existing := range origins {
			if existing == o {
				found = true
				break
			}
		}
		if !found {
			origins = append(origins, o)
		}
	}
	return origins
}
