// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package config loads the process configuration, read once at startup.
//
// Sources in increasing priority:
//   - defaults (Default)
//   - optional YAML file (LoadFile)
//   - environment variables (ApplyEnv)
//   - command-line flags, applied by the caller
//
// Environment variables:
//
//	FX_PRODUCTION  - production mode: HSTS, persisted salt (default: false)
//	FX_PORT        - main HTTP port (default: 8080)
//	FX_DATA_DIR    - directory of the embedded store (default: ./data)
//	FX_REDIS_ADDR  - use Redis instead of the embedded store
//	FX_USERNAME    - admin username (default: admin)
//	FX_PASSWORD    - admin password, unset disables the login
//	FX_DOMAIN      - public URL of the website, used for CORS
//	FX_MAX_AGE     - session window, e.g. "2w" or "14d" (default: 2w)
//	FX_PROM_PORT   - Prometheus/health port, 0 disables it
//	FX_PPROF_PORT  - PProf port on localhost, 0 disables it
//	FX_SALT        - salt override (22 characters)
//	FX_NOTIFY_URL  - Mattermost webhook alerted on every login attempt
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/teal-finance/emo"
	"gopkg.in/yaml.v3"

	"github.com/teal-finance/fxauth/salt"
	"github.com/teal-finance/fxauth/timex"
)

var log = emo.NewZone("config")

const EnvPrefix = "FX_"

var (
	ErrEmptyUsername = errors.New("config: empty username")
	ErrEmptyPassword = errors.New("config: empty password, unset it to disable the login")
	ErrPort          = errors.New("config: port out of range")
	ErrSamePort      = errors.New("config: ports must differ")
	ErrMaxAge        = errors.New("config: invalid max age")
	ErrSalt          = errors.New("config: invalid salt")
	ErrEnv           = errors.New("config: invalid environment variable")
)

type Config struct {
	Production bool    `yaml:"production"`
	Port       int     `yaml:"port"`
	DataDir    string  `yaml:"data_dir"`
	RedisAddr  string  `yaml:"redis_addr"`
	Username   string  `yaml:"username"`
	Password   *string `yaml:"password"`
	Domain     string  `yaml:"domain"`
	MaxAge     string  `yaml:"max_age"`
	PromPort   int     `yaml:"prom_port"`
	PProfPort  int     `yaml:"pprof_port"`
	Salt       string  `yaml:"salt"`
	NotifyURL  string  `yaml:"notify_url"`
}

func Default() *Config {
	return &Config{
		Production: false,
		Port:       8080,
		DataDir:    "./data",
		RedisAddr:  "",
		Username:   "admin",
		Password:   nil,
		Domain:     "",
		MaxAge:     "2w",
		PromPort:   0,
		PProfPort:  0,
		Salt:       "",
		NotifyURL:  "",
	}
}

// Load returns the validated configuration from the defaults,
// the YAML file (if path is not empty) and the environment.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		var err error
		c, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return c, c.Validate()
}

// LoadFile reads the YAML file over the defaults:
// the keys missing in the file keep their default value.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	log.Info("Loaded", path)
	return c, nil
}

// ApplyEnv overrides the fields from the FX_* variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		return lookup(EnvPrefix + name)
	}

	var err error
	if v, ok := get("PRODUCTION"); ok {
		c.Production, err = strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w %sPRODUCTION=%q", ErrEnv, EnvPrefix, v)
		}
	}

	ports := []struct {
		name string
		dst  *int
	}{
		{"PORT", &c.Port},
		{"PROM_PORT", &c.PromPort},
		{"PPROF_PORT", &c.PProfPort},
	}
	for _, p := range ports {
		if v, ok := get(p.name); ok {
			*p.dst, err = strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w %s%s=%q", ErrEnv, EnvPrefix, p.name, v)
			}
		}
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"DATA_DIR", &c.DataDir},
		{"REDIS_ADDR", &c.RedisAddr},
		{"USERNAME", &c.Username},
		{"DOMAIN", &c.Domain},
		{"MAX_AGE", &c.MaxAge},
		{"SALT", &c.Salt},
		{"NOTIFY_URL", &c.NotifyURL},
	}
	for _, s := range strs {
		if v, ok := get(s.name); ok {
			*s.dst = v
		}
	}

	if v, ok := get("PASSWORD"); ok {
		c.Password = &v
	}

	return nil
}

// Validate checks the consistency of the configuration.
// An unset password is valid: the login is disabled.
func (c *Config) Validate() error {
	if c.Username == "" {
		return ErrEmptyUsername
	}
	if c.Password != nil && *c.Password == "" {
		return ErrEmptyPassword
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port=%d", ErrPort, c.Port)
	}
	for _, p := range []int{c.PromPort, c.PProfPort} {
		if p < 0 || p > 65535 {
			return fmt.Errorf("%w: %d", ErrPort, p)
		}
		if p == c.Port {
			return fmt.Errorf("%w: %d", ErrSamePort, p)
		}
	}
	if c.PromPort > 0 && c.PromPort == c.PProfPort {
		return fmt.Errorf("%w: %d", ErrSamePort, c.PromPort)
	}

	if _, err := c.MaxAgeDays(); err != nil {
		return err
	}
	if _, _, err := c.SaltOverride(); err != nil {
		return err
	}

	if c.Password == nil {
		log.Warning("Admin password not set: the admin features are unreachable")
	}

	return nil
}

// MaxAgeDays converts MaxAge ("2w", "14d", "14") into days.
func (c *Config) MaxAgeDays() (int, error) {
	days, err := timex.ParseDays(c.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrMaxAge, c.MaxAge, err)
	}
	if days <= 0 {
		return 0, fmt.Errorf("%w %q: want at least one day", ErrMaxAge, c.MaxAge)
	}
	return days, nil
}

// SaltOverride returns the salt set in the configuration, if any.
func (c *Config) SaltOverride() (salt.Salt, bool, error) {
	if c.Salt == "" {
		return salt.Salt{}, false, nil
	}
	s, err := salt.Parse(c.Salt)
	if err != nil {
		return s, false, fmt.Errorf("%w: %w", ErrSalt, err)
	}
	return s, true, nil
}

// URLs returns the public addresses used as CORS origins.
func (c *Config) URLs() []string {
	var urls []string
	for _, d := range strings.Split(c.Domain, ",") {
		if d = strings.TrimSpace(d); d != "" {
			urls = append(urls, d)
		}
	}
	return urls
}
