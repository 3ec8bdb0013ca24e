// Copyright (c) 2014      Justinas Stankevicius
// Copyright (c) 2015-2016 contributors of alice
// Copyright (c) 2021-2026 Teal.Finance contributors
//
// This file is a modified copy from https://github.com/justinas/alice
//
// SPDX-License-Identifier: MIT

// Package chain provides a convenient way
// to chain HTTP middleware functions and the app handler.
package chain

import (
	"net/http"
)

// Middleware is a constructor function returning a http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain acts as a list of http.Handler middleware.
// Chain is effectively immutable:
// once created, it will always hold
// the same set of middleware in the same order.
type Chain []Middleware

// New creates a new chain, memorizing the given list of middleware.
// The nil middleware are skipped, so an optional feature
// can return nil when disabled:
//
//	chain.New(s.RequestLogger(), s.CORSHandler())
func New(mw ...Middleware) Chain {
	return Chain(nil).Append(mw...)
}

// Append extends a chain, adding the specified middleware
// as the last ones in the request flow. Nil middleware are skipped.
//
//	c := chain.New(m1, m2)
//	c = c.Append(m3, nil, m4)
//	// requests in chain go m1 -> m2 -> m3 -> m4
func (c Chain) Append(mw ...Middleware) Chain {
	out := make(Chain, 0, len(c)+len(mw))
	out = append(out, c...)
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Then chains the middleware and returns the final http.Handler.
//
//	chain.New(m1, m2, m3).Then(h)
//
// is equivalent to:
//
//	m1(m2(m3(h)))
//
// A chain can be safely reused by calling Then() several times.
//
// Then() treats nil as a "404 page not found" handler,
// never as http.DefaultServeMux because net/http/pprof
// registers its handlers there.
func (c Chain) Then(handler http.Handler) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	for i := range c {
		handler = c[len(c)-1-i](handler)
	}
	return handler
}

// ThenFunc works identically to Then, but takes
// a HandlerFunc instead of a Handler.
func (c Chain) ThenFunc(fn http.HandlerFunc) http.Handler {
	if fn == nil {
		return c.Then(nil)
	}
	return c.Then(fn)
}
