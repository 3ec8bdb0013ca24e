// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teal-finance/fxauth"
	"github.com/teal-finance/fxauth/salt"
)

func subCmd(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	c, _, err := root.Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, c.Name())
	return c
}

func TestGenSalt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"gen-salt"})
	require.NoError(t, root.Execute())

	s, err := salt.Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.NotEqual(t, salt.Dev, s)
}

func TestLoadConfigFlags(t *testing.T) {
	t.Parallel()

	serve := subCmd(t, newRootCmd(), "serve")
	require.NoError(t, serve.Flags().Parse([]string{
		"--port", "9001", "--max-age", "3d", "--username", "owner", "--domain", "https://example.com",
	}))

	c, err := loadConfig(serve)
	require.NoError(t, err)

	assert.Equal(t, 9001, c.Port)
	assert.Equal(t, "owner", c.Username)
	assert.Equal(t, []string{"https://example.com"}, c.URLs())

	days, err := c.MaxAgeDays()
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}

func TestLoadConfigInvalidFlag(t *testing.T) {
	t.Parallel()

	serve := subCmd(t, newRootCmd(), "serve")
	require.NoError(t, serve.Flags().Parse([]string{"--max-age", "36h"}))

	_, err := loadConfig(serve)
	require.Error(t, err)
}

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	s := fxauth.New(fxauth.WithDev(), fxauth.WithAdmin("admin", nil))
	srv := httptest.NewServer(s.Routes(nil))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"check-health", "--port", u.Port()})
	require.NoError(t, root.Execute())
	assert.Equal(t, "OK\n", out.String())
}

func TestCheckHealthFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check-health", "--port", u.Port()})
	require.Error(t, root.Execute())
}
