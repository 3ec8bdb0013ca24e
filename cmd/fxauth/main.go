// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package main runs the single-admin session server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/teal-finance/emo"

	"github.com/teal-finance/fxauth"
	"github.com/teal-finance/fxauth/config"
	"github.com/teal-finance/fxauth/kv"
	"github.com/teal-finance/fxauth/notifier"
	"github.com/teal-finance/fxauth/salt"
)

var log = emo.NewZone("main")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fxauth",
		Short: "Single-admin session server using encrypted stateless cookies",
	}

	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the login, logout and session endpoints",
		SilenceUsage: true,
		RunE:         runServe,
	}
	f := serveCmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.Bool("production", false, "Production mode: HSTS and persisted salt")
	f.Int("port", 0, "Main HTTP port (default from config: 8080)")
	f.String("data-dir", "", "Directory of the embedded key-value store")
	f.String("redis", "", "Redis address, replaces the embedded store")
	f.String("username", "", "Admin username")
	f.String("domain", "", "Public URLs of the website (comma separated)")
	f.String("max-age", "", `Session window, as "2w" or "14d"`)
	f.String("notify", "", "Mattermost webhook URL alerted on every login attempt")
	f.Int("prom-port", 0, "Prometheus/health port, 0 disables it")
	f.Int("pprof-port", 0, "PProf port on localhost, 0 disables it")
	f.Int("req-logs", 1, "Request logs: 0=none 1=URL 2=URL+status+duration")
	f.Bool("cpuprofile", false, "Write the CPU profile in the current directory")
	root.AddCommand(serveCmd)

	healthCmd := &cobra.Command{
		Use:          "check-health",
		Short:        "Exit non-zero when the local server does not respond",
		SilenceUsage: true,
		RunE:         runCheckHealth,
	}
	healthCmd.Flags().Int("port", 8080, "Main HTTP port")
	root.AddCommand(healthCmd)

	root.AddCommand(&cobra.Command{
		Use:   "gen-salt",
		Short: "Print a new random salt (FX_SALT)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := salt.Generate()
			if err != nil {
				return err
			}
			cmd.Println(s.String())
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, line := range fxauth.VersionInfo("") {
				cmd.Println(line)
			}
		},
	})

	return root
}

// loadConfig applies, in increasing priority: defaults, file, environment, flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()

	c := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		c, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if f.Changed("production") {
		c.Production, _ = f.GetBool("production")
	}
	ints := map[string]*int{"port": &c.Port, "prom-port": &c.PromPort, "pprof-port": &c.PProfPort}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	strs := map[string]*string{
		"data-dir": &c.DataDir, "redis": &c.RedisAddr, "username": &c.Username,
		"domain": &c.Domain, "max-age": &c.MaxAge, "notify": &c.NotifyURL,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	return c, c.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cpu, _ := cmd.Flags().GetBool("cpuprofile"); cpu {
		defer fxauth.ProbeCPU().Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := obtainSalt(ctx, c)
	if err != nil {
		return err
	}

	days, err := c.MaxAgeDays()
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetInt("req-logs")

	fxauth.LogVersion("")

	opts := []fxauth.Option{
		fxauth.WithDev(!c.Production),
		fxauth.WithAdmin(c.Username, c.Password),
		fxauth.WithSalt(st),
		fxauth.WithMaxAge(days),
		fxauth.WithURLs(c.URLs()...),
		fxauth.WithProm(c.PromPort, "fxauth"),
		fxauth.WithPProf(c.PProfPort),
		fxauth.WithServerHeader("fxauth"),
		fxauth.WithReqLogs(verbosity),
	}
	if c.NotifyURL != "" {
		opts = append(opts, fxauth.WithNotifier(notifier.New(c.NotifyURL)))
	}

	s := fxauth.New(opts...)

	admin := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fxauth.WriteOK(w, "admin", true)
	})

	return s.Run(ctx, s.Routes(admin), c.Port)
}

// obtainSalt prefers the configured salt, else the persisted one in production,
// else the development constant.
func obtainSalt(ctx context.Context, c *config.Config) (salt.Salt, error) {
	if st, ok, err := c.SaltOverride(); ok || err != nil {
		return st, err
	}

	if !c.Production {
		return salt.Obtain(ctx, false, nil)
	}

	store, err := openStore(ctx, c)
	if err != nil {
		return salt.Salt{}, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warning("Close store:", err)
		}
	}()

	return salt.Obtain(ctx, true, store)
}

func openStore(ctx context.Context, c *config.Config) (kv.Store, error) {
	if c.RedisAddr != "" {
		log.Info("Salt store: Redis", c.RedisAddr)
		store, err := kv.DialRedis(ctx, c.RedisAddr)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	log.Info("Salt store: Badger", c.DataDir)
	store, err := kv.OpenBadger(c.DataDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func runCheckHealth(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	url := "http://localhost:" + strconv.Itoa(port) + "/api/session"

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	cmd.Println("OK")
	return nil
}
