// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package fxauth

import (
	"fmt"
	"strings"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

// V is set at build time using a flag passed to the linker:
//
//	go build -ldflags="-X 'github.com/teal-finance/fxauth.V=v1.2.3'" ./cmd/fxauth
//
//nolint:gochecknoglobals // This is set at build time
var V string

// Version formats "program-version", the version being V,
// else the module version from the build info.
func Version(program, version string) string {
	if version == "" {
		version = V
		if version == "" {
			version = versioninfo.Short()
			if version == "" {
				version = "undefined-version"
			}
			V = version
		}
	}

	if program != "" {
		program += "-"
		if len(version) > 1 && version[0] == 'v' {
			version = version[1:] // Skip the prefix "v"
		}
	}

	return program + version
}

func VersionInfo(version string) []string {
	info := make([]string, 0, 3)

	if version == "" {
		version = Version("", "")
	}
	info = append(info, version)

	short := versioninfo.Short()
	if !strings.HasSuffix(version, short) {
		info = append(info, fmt.Sprint("ShortVersion: ", short))
	}

	if !versioninfo.LastCommit.IsZero() {
		ago := time.Since(versioninfo.LastCommit).Round(time.Minute)
		info = append(info, fmt.Sprint(
			"LastCommit: ", versioninfo.LastCommit.Format("2006-01-02 15:04:05"),
			" (", ago, " ago)"))
	}

	return info
}

func LogVersion(v string) {
	for i, line := range VersionInfo(v) {
		if i == 0 && v == "" {
			line = "Version: " + line
		}
		log.Info(line)
	}
}
