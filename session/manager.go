// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/teal-finance/emo"

	"github.com/teal-finance/fxauth/aead"
	"github.com/teal-finance/fxauth/kdf"
	"github.com/teal-finance/fxauth/salt"
	"github.com/teal-finance/fxauth/timex"
)

var log = emo.NewZone("session")

const (
	// DefaultCookieName is the name of the session cookie.
	DefaultCookieName = "auth"

	// DefaultMaxAgeDays is the session window: 2 weeks.
	DefaultMaxAgeDays = 14
)

// State is the outcome of a session check.
type State int

const (
	// Absent means no session cookie.
	Absent State = iota
	// Invalid means the cookie fails to decode, decrypt or parse.
	Invalid
	// Expired means the cookie decrypts but its date is outside the window.
	Expired
	// Unconfigured means no admin password is set: nothing can be valid.
	Unconfigured
	// Valid is the only authenticated state.
	Valid
)

var stateNames = [...]string{
	Absent:       "absent",
	Invalid:      "invalid",
	Expired:      "expired",
	Unconfigured: "unconfigured",
	Valid:        "valid",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Authenticated is true only for Valid.
func (s State) Authenticated() bool {
	return s == Valid
}

// Observer receives the outcome of every login and check,
// for example to feed the Prometheus counters.
type Observer interface {
	ObserveLogin(ok bool)
	ObserveCheck(s State)
}

type noObserver struct{}

func (noObserver) ObserveLogin(bool)   {}
func (noObserver) ObserveCheck(State) {}

// Manager issues and checks the session cookies.
// The Manager is immutable after New: safe for concurrent use.
type Manager struct {
	observer   Observer
	now        func() time.Time
	cipher     *aead.Cipher // nil when no admin password
	actual     Credentials
	cookieName string
	maxAgeDays int
	salt       salt.Salt
	secure     bool
}

type Option func(*Manager)

// WithCookieName overrides the "auth" cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name == "" {
			panic("WithCookieName: empty cookie name")
		}
		m.cookieName = name
	}
}

// WithMaxAge sets the session window in days.
func WithMaxAge(days int) Option {
	return func(m *Manager) {
		if days <= 0 {
			panic(fmt.Sprint("WithMaxAge: want positive number of days but got ", days))
		}
		m.maxAgeDays = days
	}
}

// WithSecure sets the Secure attribute of the cookie (default true).
// Plain HTTP on localhost during development may need false.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o == nil {
			o = noObserver{}
		}
		m.observer = o
	}
}

// New creates the Manager from the process salt and the admin credentials.
// When the admin password is set, New derives the checking key once:
// both salt and password are immutable for the process lifetime.
// An error here is a startup error.
func New(s salt.Salt, actual Credentials, opts ...Option) (*Manager, error) {
	m := &Manager{
		observer:   noObserver{},
		now:        time.Now,
		cipher:     nil,
		actual:     actual,
		cookieName: DefaultCookieName,
		maxAgeDays: DefaultMaxAgeDays,
		salt:       s,
		secure:     true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if !actual.HasPassword() {
		log.Warning("Admin password not set: admin features are unreachable")
		return m, nil
	}

	c, err := newCipher(s, *actual.Password)
	if err != nil {
		return nil, err
	}
	m.cipher = c

	log.Info(fmt.Sprintf("Session cookie %q max-age=%dd secure=%v", m.cookieName, m.maxAgeDays, m.secure))
	return m, nil
}

func newCipher(s salt.Salt, password string) (*aead.Cipher, error) {
	key, err := kdf.Derive(s.Bytes(), password)
	if err != nil {
		return nil, err
	}
	return aead.New(key)
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// MaxAge returns the session window in days.
func (m *Manager) MaxAge() int { return m.maxAgeDays }

// Configured reports whether an admin password is set.
func (m *Manager) Configured() bool { return m.cipher != nil }

func (m *Manager) today() timex.Date {
	return timex.DateOf(m.now())
}

// Login verifies the received credentials and returns the session cookie.
// Login returns false when the credentials do not match
// (the caller renders "Invalid username or password").
func (m *Manager) Login(received Credentials) (*http.Cookie, bool) {
	ok := Verify(m.actual, received)
	if !ok {
		m.observer.ObserveLogin(false)
		return nil, false
	}

	value, ok := m.seal(*received.Password, m.today())
	m.observer.ObserveLogin(ok)
	if !ok {
		return nil, false
	}

	return m.cookie(value, m.maxAgeDays*timex.DaySec), true
}

// seal encrypts the date under the key derived from password.
func (m *Manager) seal(password string, date timex.Date) (string, bool) {
	c, err := newCipher(m.salt, password)
	if err != nil {
		log.Error("Login:", err)
		return "", false
	}

	nonce, ciphertext, err := c.Encrypt([]byte(date.String()))
	if err != nil {
		log.Error("Login:", err)
		return "", false
	}

	return EncodeCookie(Envelope{Nonce: nonce, Ciphertext: ciphertext}), true
}

// HandleLogin sets the session cookie in the response
// when the received credentials match.
func (m *Manager) HandleLogin(w http.ResponseWriter, received Credentials) bool {
	cookie, ok := m.Login(received)
	if ok {
		http.SetCookie(w, cookie)
	}
	return ok
}

// Logout returns the cookie that removes the session cookie.
// Logout never fails, even when the client has no session.
func (m *Manager) Logout() *http.Cookie {
	return m.cookie("", -1)
}

// HandleLogout removes the session cookie from the client.
func (m *Manager) HandleLogout(w http.ResponseWriter) {
	http.SetCookie(w, m.Logout())
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Check returns the state of the session cookie, nil meaning no cookie.
// Check never panics: every failure is reported as a non-Valid state.
func (m *Manager) Check(cookie *http.Cookie) State {
	s := m.check(cookie)
	m.observer.ObserveCheck(s)
	return s
}

func (m *Manager) check(cookie *http.Cookie) State {
	if cookie == nil {
		return Absent
	}

	env, ok := DecodeCookie(cookie.Value)
	if !ok {
		return Invalid
	}

	if m.cipher == nil {
		log.Warning("Admin password not set: session rejected")
		return Unconfigured
	}

	plaintext, ok := m.cipher.Decrypt(env.Nonce, env.Ciphertext)
	if !ok {
		return Invalid
	}

	date, err := timex.ParseDate(string(plaintext))
	if err != nil {
		log.Warning("Decrypted session is not a date:", err)
		return Invalid
	}

	if m.today().After(date.AddDays(m.maxAgeDays)) {
		return Expired
	}
	return Valid
}

// CheckRequest returns the state of the session cookie of r.
func (m *Manager) CheckRequest(r *http.Request) State {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		cookie = nil
	}
	return m.Check(cookie)
}

// IsLoggedIn reports whether r carries a Valid session cookie.
func (m *Manager) IsLoggedIn(r *http.Request) bool {
	return m.CheckRequest(r).Authenticated()
}
