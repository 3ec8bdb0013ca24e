// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// MattermostNotifier posts to an incoming webhook (Mattermost or Slack).
type MattermostNotifier struct {
	client   *http.Client
	endpoint string
}

func NewMattermost(endpoint string) MattermostNotifier {
	return MattermostNotifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: endpoint,
	}
}

func (n MattermostNotifier) Notify(ctx context.Context, msg string) error {
	buf := strconv.AppendQuoteToGraphic([]byte(`{"text":`), msg)
	buf = append(buf, '}')

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("MattermostNotifier: malformed webhook URL for host=%s", n.host())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err // the URL contains the webhook secret
		}
		return fmt.Errorf("MattermostNotifier: %w from host=%s", err, n.host())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("MattermostNotifier: %s from host=%s", resp.Status, n.host())
	}
	return nil
}

// host does not leak the secret part of the webhook URL.
func (n MattermostNotifier) host() string {
	if u, err := url.Parse(n.endpoint); err == nil {
		return u.Hostname()
	}
	return ""
}
