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
	"net/http"

	"golang.org/x/time/rate"
)

// limitTransport delays outgoing requests to honor the service's request
// budget. A blocked request respects its context's cancellation.
type limitTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// rateLimited wraps the HTTP client in a transport allowing at most perMinute
// requests per minute, with a burst of up to one second's allowance.
func rateLimited(hc *http.Client, perMinute int) *http.Client {
	burst := perMinute / 60
	if burst < 1 {
		burst = 1
	}
	limited := *hc
	limited.Transport = &limitTransport{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
		base:    hc.Transport,
	}
	return &limited
}
