// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/profile"
)

// ProbeCPU is used like the following:
//
//	defer fxauth.ProbeCPU().Stop()
//
// Then, to visualize the profile:
//
//	go run github.com/google/pprof@latest -http=: cpu.pprof
func ProbeCPU() interface{ Stop() } {
	log.Info("Probing CPU. To visualize the profile: pprof -http=: cpu.pprof")
	return profile.Start(profile.ProfilePath("."), profile.Quiet)
}

// StartPProfServer serves /debug/pprof/* on localhost only.
// Port zero disables it.
//
//	curl http://localhost:6063/debug/pprof/allocs > allocs.pprof
//	pprof -http=: allocs.pprof
func StartPProfServer(port int) {
	if port <= 0 {
		return // Disable PProf endpoints /debug/pprof/*
	}

	addr := "localhost:" + strconv.Itoa(port)
	go runPProfServer(addr, PProfHandler())
}

func PProfHandler() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	r.NotFound(pprof.Index) // also serves /debug/pprof/{heap,goroutine,block...}
	return r
}

func runPProfServer(addr string, h http.Handler) {
	log.Info("Enable PProf endpoints: http://" + addr + "/debug/pprof")
	server := http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: time.Second,
	}
	err := server.ListenAndServe()
	panic(err)
}
