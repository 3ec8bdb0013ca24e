// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/teal-finance/fxauth"
)

func TestExtractName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want fxauth.ServerName
	}{
		{"fxauth", "fxauth"},
		{"github.com/teal-finance/fx-auth", "fx_auth"},
		{"/my.blog/", "myblog"},
		{"a b$c", "abc"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()
			if got := fxauth.ExtractName(c.in); got != c.want {
				t.Errorf("ExtractName(%q)=%q want %q", c.in, got, c.want)
			}
		})
	}
}

func TestRespectPromNamingRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   fxauth.ServerName
		want fxauth.ServerName
	}{
		{"fxauth", "fxauth"},
		{"1blog", "a1blog"},
		{"fx-auth", "fx_auth"},
		{"", "fxauth"},
	}

	for _, c := range cases {
		if got := c.in.RespectPromNamingRule(); got != c.want {
			t.Errorf("%q.RespectPromNamingRule()=%q want %q", c.in, got, c.want)
		}
	}
}

func scrape(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	resp := do(h, httptest.NewRequest(http.MethodGet, path, nil))
	return resp.StatusCode, body(t, resp)
}

func TestSessionMetrics(t *testing.T) {
	t.Parallel()

	s, h := newServer(t, fxauth.WithProm(9098, "fx-test"))
	if s.Metrics() == nil {
		t.Fatal("Metrics() is nil while WithProm")
	}

	do(h, loginRequest("admin", "wrong"))
	cookie := sessionCookie(t, do(h, loginRequest("admin", password)))
	loggedIn(t, h, cookie)
	loggedIn(t, h, nil)

	code, txt := scrape(t, s.Metrics().Handler(nil, nil), "/metrics")
	if code != http.StatusOK {
		t.Fatalf("/metrics status=%d", code)
	}

	for _, want := range []string{
		`fx_test_session_login_total{result="failure"} 1`,
		`fx_test_session_login_total{result="success"} 1`,
		`fx_test_session_check_total{state="valid"} 1`,
		`fx_test_session_check_total{state="absent"} 1`,
		`fx_test_http_request_duration_seconds`,
		`go_goroutines`,
	} {
		if !strings.Contains(txt, want) {
			t.Errorf("/metrics misses %s", want)
		}
	}
}

func TestRouteLabelBounded(t *testing.T) {
	t.Parallel()

	s, h := newServer(t, fxauth.WithProm(9098, "fx-route"))

	const n = 200
	for i := 0; i < n; i++ {
		do(h, httptest.NewRequest(http.MethodGet, "/x"+strconv.Itoa(i), nil))
		do(h, httptest.NewRequest(http.MethodGet, "/admin/page"+strconv.Itoa(i), nil))
	}
	do(h, httptest.NewRequest(http.MethodGet, "/login", nil))

	_, txt := scrape(t, s.Metrics().Handler(nil, nil), "/metrics")

	series := 0
	for _, line := range strings.Split(txt, "\n") {
		if strings.HasPrefix(line, "fx_route_http_request_duration_seconds_count{") {
			series++
		}
	}
	if series != 3 {
		t.Errorf("got %d duration series want 3 (other, /admin/*, /login)", series)
	}

	for _, want := range []string{
		`fx_route_http_request_duration_seconds_count{code="404",route="other"} ` + strconv.Itoa(n),
		`fx_route_http_request_duration_seconds_count{code="401",route="/admin/*"} ` + strconv.Itoa(n),
		`fx_route_http_request_duration_seconds_count{code="200",route="/login"} 1`,
	} {
		if !strings.Contains(txt, want) {
			t.Errorf("/metrics misses %s", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	t.Parallel()

	s, _ := newServer(t)
	if s.Metrics() != nil {
		t.Error("Metrics() is not nil without WithProm")
	}
}

func TestProbes(t *testing.T) {
	t.Parallel()

	ok := func() []byte { return nil }
	ko := func() []byte { return []byte("store down") }

	cases := []struct {
		name      string
		liveness  []fxauth.ProbeFunction
		readiness []fxauth.ProbeFunction
		health    int
		ready     int
	}{
		{"none", nil, nil, http.StatusOK, http.StatusOK},
		{"ready", []fxauth.ProbeFunction{ok}, []fxauth.ProbeFunction{ok}, http.StatusOK, http.StatusOK},
		{"not-ready", []fxauth.ProbeFunction{ok}, []fxauth.ProbeFunction{ok, ko}, http.StatusOK, http.StatusServiceUnavailable},
		{"dead", []fxauth.ProbeFunction{ko}, nil, http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}

	m := fxauth.NewMetrics("probe")

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			h := m.Handler(c.liveness, c.readiness)

			if code, _ := scrape(t, h, "/health"); code != c.health {
				t.Errorf("/health status=%d want %d", code, c.health)
			}
			code, txt := scrape(t, h, "/ready")
			if code != c.ready {
				t.Errorf("/ready status=%d want %d", code, c.ready)
			}
			if code != http.StatusOK && txt != "store down" {
				t.Errorf("/ready body=%q", txt)
			}
		})
	}
}

func TestExporterNotFound(t *testing.T) {
	t.Parallel()

	code, _ := scrape(t, fxauth.NewMetrics("nf").Handler(nil, nil), "/login")
	if code != http.StatusNotFound {
		t.Errorf("status=%d want 404", code)
	}
}

func TestStatusCodeStr(t *testing.T) {
	t.Parallel()

	for _, code := range []int{200, 201, 303, 400, 401, 404, 418, 500, 503} {
		if got := fxauth.StatusCodeStr(code); got != strconv.Itoa(code) {
			t.Errorf("StatusCodeStr(%d)=%q", code, got)
		}
	}
}
