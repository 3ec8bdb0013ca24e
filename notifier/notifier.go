// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package notifier alerts the admin about the login attempts.
package notifier

import (
	"context"

	"github.com/teal-finance/emo"
)

var log = emo.NewZone("notifier")

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// New returns the Mattermost notifier posting to the endpoint,
// or the Fake one when the endpoint is empty.
func New(endpoint string) Notifier {
	if endpoint == "" {
		log.Info("empty URL => use the FakeNotifier")
		return NewFake()
	}
	return NewMattermost(endpoint)
}
