// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"net/http"
	"strconv"
	"time"

	"github.com/teal-finance/fxauth/security"
)

// one week
const hsts = "max-age=604800; preload"

// MiddlewareServerHeader sets the Server HTTP header in the response.
func MiddlewareServerHeader(version string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log.Info("MiddlewareServerHeader sets the HTTP header Server=" + version)

		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Server", version)
				next.ServeHTTP(w, r)
			})
	}
}

// MiddlewareRejectUnprintableURI is a middleware rejecting HTTP requests having
// a Carriage Return "\r" or a Line Feed "\n"
// within the URI to prevent log injection.
func MiddlewareRejectUnprintableURI(next http.Handler) http.Handler {
	log.Info("MiddlewareRejectUnprintableURI rejects URI having line breaks or unprintable characters")

	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if i := security.Printable(r.RequestURI); i >= 0 {
				WriteErr(w, r, http.StatusBadRequest,
					"Invalid URI with non-printable symbol",
					"position", i)
				log.Warning("reject non-printable URI or with <CR> or <LF>:", security.Sanitize(r.RequestURI))
				return
			}

			next.ServeHTTP(w, r)
		})
}

// MiddlewareSecureHTTPHeader is a middleware adding recommended HTTP response headers to secure the web application.
// HSTS must be false for http://localhost.
func MiddlewareSecureHTTPHeader(withHSTS bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log.Info("MiddlewareSecureHTTPHeader sets some secure HTTP headers, HSTS=", withHSTS)

		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.Header().Set("Referrer-Policy", "same-origin")
				if withHSTS {
					w.Header().Set("Strict-Transport-Security", hsts)
				}
				next.ServeHTTP(w, r)
			})
	}
}

// MiddlewareLogRequestSafe logs the requester IP and the sanitized URL.
// The cookies are never logged.
func MiddlewareLogRequestSafe(next http.Handler) http.Handler {
	log.Info("MiddlewareLogRequestSafe logs requester IP and sanitized URL")

	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			log.ArrowIn(ipMethodURLSafe(r))
			next.ServeHTTP(w, r)
		})
}

// MiddlewareLogDurationSafe logs the requester IP, the sanitized URL,
// the status code and the handling time.
func MiddlewareLogDurationSafe(next http.Handler) http.Handler {
	log.Info("MiddlewareLogDurationSafe logs requester IP, sanitized URL, status and duration")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		record := &statusRecorder{ResponseWriter: w, StatusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(record, r)
		d := time.Since(start)

		log.ArrowOut(ipMethodURLDurationSafe(r, StatusCodeStr(record.StatusCode), d))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	StatusCode int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.ResponseWriter.WriteHeader(status)
	r.StatusCode = status
}

func ipMethodURLSafe(r *http.Request) string {
	return "--> " + r.RemoteAddr + " " + r.Method + " " + security.Sanitize(r.RequestURI)
}

func ipMethodURLDurationSafe(r *http.Request, statusCode string, d time.Duration) string {
	return statusCode + " " + r.RemoteAddr + " " + r.Method + " " +
		security.Sanitize(r.RequestURI) + " " + d.String()
}

func StatusCodeStr(code int) string {
	// fast path for common codes
	switch code {
	case http.StatusOK:
		return "200" // OK
	case http.StatusSeeOther:
		return "303" // See Other
	case http.StatusBadRequest:
		return "400" // Bad Request
	case http.StatusUnauthorized:
		return "401" // Unauthorized
	case http.StatusNotFound:
		return "404" // Not Found
	case http.StatusInternalServerError:
		return "500" // Internal Server Error
	}
	return strconv.Itoa(code)
}
