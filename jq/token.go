// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jq

import (
	"context"

	"github.com/stockparfait/logging"
)

// preAuth runs one of the two pre-authentication token operations. The
// payload carries the raw credentials and no token; the body is the token
// text on success and an "error:"-prefixed text otherwise.
func (c *Client) preAuth(ctx context.Context, op string) (string, error) {
	params := Params{"mob": c.creds.Mobile, "pwd": c.creds.Password}
	v, err := c.call(ctx, op, params, formatText, false)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Initialize acquires the authentication token for the client's credentials
// and stores it for all subsequent calls, replacing any prior value. It first
// retrieves a still-valid token issued earlier today; if the service rejects
// that attempt with an auth or unknown classification, it mints a brand-new
// token. A failure of the minting attempt propagates unchanged, and there is
// no further retry here.
//
// The service invalidates tokens at the end of the calendar day. The client
// does not watch the clock: a data call failing with IsAuth means it is time
// to call Initialize again.
//
// Concurrent Initialize calls are safe; the last writer wins.
func (c *Client) Initialize(ctx context.Context) error {
	token, err := c.preAuth(ctx, "get_current_token")
	switch KindOf(err) {
	case "": // retrieved an existing token
	case KindAuth, KindUnknown:
		logging.Warningf(ctx,
			"retrieving the current token failed, minting a new one: %s", err)
		if token, err = c.preAuth(ctx, "get_token"); err != nil {
			return err
		}
	default:
		return err
	}
	c.setToken(token)
	logging.Infof(ctx, "authenticated until the end of the trading day")
	return nil
}
