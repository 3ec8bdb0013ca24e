// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/teal-finance/fxauth/security"
	"github.com/teal-finance/fxauth/session"
)

// maxFormSize limits the login form: two short fields.
const maxFormSize = 4096

const (
	msgInvalidCreds = "Invalid username or password"
	msgNoPassword   = "Admin password not set"
	msgPleaseLogin  = "Please log in"
)

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Login</title></head>
<body>
<form method="post" action="/login">
{{if .}}<p role="alert">{{.}}</p>
{{end}}<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<button type="submit">Log in</button>
</form>
</body>
</html>
`))

// Routes serves the session endpoints and mounts admin under /admin
// behind the Chk middleware. A nil admin mounts nothing.
func (s *Server) Routes(admin http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/login", s.GetLogin)
	r.Post("/login", s.PostLogin)
	r.Get("/logout", s.Logout)
	r.Post("/logout", s.Logout)
	r.Get("/api/session", s.GetSession)

	if admin != nil {
		r.Mount("/admin", s.Chk(admin))
	}

	r.NotFound(s.Writer.InvalidPath)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.Writer.WriteErr(w, r, http.StatusMethodNotAllowed, "Method not allowed", "method", r.Method)
	})

	return r
}

// GetLogin renders the login form.
func (s *Server) GetLogin(w http.ResponseWriter, _ *http.Request) {
	renderLogin(w, http.StatusOK, "")
}

// PostLogin checks the form fields "username" and "password".
// On success, it sets the session cookie and redirects to "/".
func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	if !s.manager.Configured() {
		log.Warning("Login attempt while the admin password is not set")
		s.Writer.WriteErr(w, r, http.StatusInternalServerError, msgNoPassword)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		s.Writer.WriteErr(w, r, http.StatusBadRequest, "Cannot parse the login form", "error", err)
		return
	}

	received := formCredentials(r)

	if !s.manager.HandleLogin(w, received) {
		name := ""
		if received.Username != nil {
			name = *received.Username
		}
		log.Warning("Failed login from", r.RemoteAddr, "username=", security.Obfuscate(name))
		s.notify("Failed admin login from " + security.Sanitize(r.RemoteAddr))

		if wantsJSON(r) {
			s.Writer.WriteErr(w, r, http.StatusUnauthorized, msgInvalidCreds)
			return
		}
		renderLogin(w, http.StatusUnauthorized, msgInvalidCreds)
		return
	}

	log.Info("Admin logged in from", r.RemoteAddr)
	s.notify("Admin logged in from " + security.Sanitize(r.RemoteAddr))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session cookie, even when not logged in.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.manager.HandleLogout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetSession responds {"logged_in":true} or {"logged_in":false}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.Writer.WriteOK(w, "logged_in", s.manager.IsLoggedIn(r))
}

// Chk is a middleware accepting only the requests having a valid session cookie.
func (s *Server) Chk(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if st := s.manager.CheckRequest(r); !st.Authenticated() {
			log.Debug("Chk rejects", security.Sanitize(r.URL.Path), "session=", st)
			s.Writer.WriteErr(w, r, http.StatusUnauthorized, msgPleaseLogin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// formCredentials keeps a missing field absent (nil),
// distinct from a field submitted empty.
func formCredentials(r *http.Request) session.Credentials {
	var c session.Credentials
	if v, ok := r.PostForm["username"]; ok && len(v) > 0 {
		c.Username = &v[0]
	}
	if v, ok := r.PostForm["password"]; ok && len(v) > 0 {
		c.Password = &v[0]
	}
	return c
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderLogin(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	if err := loginPage.Execute(w, message); err != nil {
		log.Error("login page:", err)
	}
}
