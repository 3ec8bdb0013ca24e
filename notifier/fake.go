// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package notifier

import (
	"context"

	"github.com/teal-finance/fxauth/security"
)

// FakeNotifier only logs the messages.
type FakeNotifier struct{}

func NewFake() FakeNotifier {
	return FakeNotifier{}
}

func (FakeNotifier) Notify(_ context.Context, msg string) error {
	log.Info("FakeNotifier:", security.Sanitize(msg))
	return nil
}
