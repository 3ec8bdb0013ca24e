// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package notifier_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teal-finance/fxauth/notifier"
)

func TestMattermostNotify(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got <- body.Text
	}))
	defer srv.Close()

	n := notifier.New(srv.URL + "/hooks/secret")
	if err := n.Notify(context.Background(), `Failed "admin" login`); err != nil {
		t.Fatal("Notify:", err)
	}
	if text := <-got; text != `Failed "admin" login` {
		t.Errorf("text=%q", text)
	}
}

func TestMattermostError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	err := notifier.New(srv.URL + "/hooks/secret").Notify(context.Background(), "Hello")
	if err == nil {
		t.Fatal("want error")
	}
	want := "MattermostNotifier: 405 Method Not Allowed from host=127.0.0.1"
	if err.Error() != want {
		t.Errorf("got  %q\nwant %q", err, want)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Error("error leaks the webhook path")
	}
}

func TestMattermostTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL + "/hooks/secret"
	srv.Close() // connection refused

	err := notifier.New(endpoint).Notify(context.Background(), "Hello")
	if err == nil {
		t.Fatal("want error")
	}
	if strings.Contains(err.Error(), "secret") || strings.Contains(err.Error(), "/hooks") {
		t.Errorf("error leaks the webhook path: %q", err)
	}
	if !strings.HasPrefix(err.Error(), "MattermostNotifier: ") ||
		!strings.HasSuffix(err.Error(), " from host=127.0.0.1") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestMattermostMalformedURL(t *testing.T) {
	t.Parallel()

	err := notifier.NewMattermost("http://127.0.0.1/hooks/secret\x7f").Notify(context.Background(), "Hello")
	if err == nil {
		t.Fatal("want error")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks the webhook path: %q", err)
	}
}

func TestFake(t *testing.T) {
	t.Parallel()

	n := notifier.New("")
	if _, ok := n.(notifier.FakeNotifier); !ok {
		t.Fatalf("New(\"\") = %T want FakeNotifier", n)
	}
	if err := n.Notify(context.Background(), "line\nbreak"); err != nil {
		t.Error("Notify:", err)
	}
}
