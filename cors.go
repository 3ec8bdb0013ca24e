// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/rs/cors"

	"github.com/teal-finance/fxauth/security"
)

// MiddlewareCORS uses restrictive CORS values.
// The origins are matched exactly, see allowOrigins for the wildcards.
// The credentials are allowed: the browser sends the session cookie.
func MiddlewareCORS(origins []string, debug bool) func(next http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:         []string{},
		AllowOriginFunc:        nil,
		AllowOriginRequestFunc: nil,
		AllowedMethods:         []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:         []string{"Origin", "Accept", "Content-Type", "Cookie"},
		ExposedHeaders:         []string{},
		MaxAge:                 24 * 3600, // https://developer.mozilla.org/docs/Web/HTTP/Headers/Access-Control-Max-Age
		AllowCredentials:       true,
		OptionsPassthrough:     false,
		OptionsSuccessStatus:   http.StatusNoContent,
		Debug:                  debug, // verbose logs
	}

	origins = InsertSchema(origins)

	options.AllowOriginFunc = allowOrigins(origins)

	log.Info(fmt.Sprintf("CORS: Methods=%v Headers=%v Credentials=%v MaxAge=%v",
		options.AllowedMethods, options.AllowedHeaders, options.AllowCredentials, options.MaxAge))

	return cors.New(options).Handler
}

// InsertSchema returns a copy of origins, prefixed by "http://" when the scheme is missing.
func InsertSchema(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if !strings.HasPrefix(o, "https://") &&
			!strings.HasPrefix(o, "http://") {
			o = "http://" + o
		}
		out = append(out, o)
	}
	return out
}

// allowOrigins accepts the exact origins "scheme://host[:port]".
// An origin ending with ":" accepts any port on that host,
// such as "http://localhost:".
// An origin ending with "." accepts the IPv4 addresses starting so,
// any port, such as "http://192.168.1.".
func allowOrigins(origins []string) func(origin string) bool {
	exact := make(map[string]struct{}, len(origins))
	var anyPort, ipPrefixes []string

	for _, o := range origins {
		switch {
		case strings.HasSuffix(o, ":"):
			anyPort = append(anyPort, strings.TrimSuffix(o, ":"))
		case strings.HasSuffix(o, "."):
			ipPrefixes = append(ipPrefixes, o)
		default:
			exact[o] = struct{}{}
		}
	}

	log.Info("CORS: Set origins:", origins)

	return func(origin string) bool {
		u, ok := parseOrigin(origin)
		if !ok {
			log.Info("CORS: Refuse malformed origin", security.Sanitize(origin))
			return false
		}

		if _, ok := exact[u.Scheme+"://"+u.Host]; ok {
			return true
		}

		schemeHost := u.Scheme + "://" + u.Hostname()
		for _, o := range anyPort {
			if schemeHost == o {
				return true
			}
		}

		if ip, err := netip.ParseAddr(u.Hostname()); err == nil && ip.Is4() {
			schemeIP := u.Scheme + "://" + ip.String()
			for _, p := range ipPrefixes {
				if strings.HasPrefix(schemeIP, p) {
					return true
				}
			}
		}

		log.Info("CORS: Refuse", security.Sanitize(origin), "not in", origins)
		return false
	}
}

// parseOrigin accepts only "http(s)://host[:port]".
func parseOrigin(origin string) (*url.URL, bool) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" || u.User != nil || u.Opaque != "" ||
		u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return nil, false
	}
	return u, true
}
