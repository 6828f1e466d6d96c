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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/jqdata/table"
	"github.com/stockparfait/logging"
)

// Params is the parameter mapping of a single call, keyed by wire name.
// Values may be strings, ints, floats, bools, Dates or DateTimes. A value
// counts as absent, and is dropped from the payload, when it is nil, an empty
// string, a zero int, or a zero Date / DateTime. A false bool is a real value
// and is sent; get_ticks distinguishes skip=false from an unset skip.
type Params map[string]interface{}

// resultFormat selects how a successful response body is decoded. Every wire
// method uses exactly one of the four formats.
type resultFormat int

const (
	formatText  resultFormat = iota // the body verbatim
	formatLines                     // newline-separated values
	formatTable                     // CSV with a header row
	formatJSON                      // a generic JSON value
)

// maxBodySize caps reading a response body. The service pages its largest
// replies well below this.
const maxBodySize = 1 << 26 // 64 MiB

// buildPayload drops absent parameter values, converts the rest to their wire
// types, validates the call, and injects the method name and, when withToken
// is set, the current token. The two pre-authentication token operations run
// with withToken = false. All failures here are local: no payload with a
// validation error ever reaches the network.
func (c *Client) buildPayload(op string, params Params, withToken bool) (map[string]interface{}, error) {
	payload := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t == "" {
				continue
			}
			payload[k] = t
		case int:
			if t == 0 {
				continue
			}
			payload[k] = t
		case float64:
			payload[k] = t
		case bool:
			payload[k] = t
		case Date:
			if t.IsZero() {
				continue
			}
			payload[k] = t.String()
		case DateTime:
			if t.IsZero() {
				continue
			}
			payload[k] = t.String()
		default:
			return nil, &Error{
				Kind:    KindValidation,
				Op:      op,
				Message: fmt.Sprintf("unsupported type %T for parameter '%s'", v, k),
			}
		}
	}
	if err := validateCall(op, payload); err != nil {
		return nil, err
	}
	payload["method"] = op
	if withToken {
		token := c.Token()
		if token == "" {
			return nil, &Error{
				Kind:    KindValidation,
				Op:      op,
				Message: "token is empty, please initialize first",
			}
		}
		payload["token"] = token
	}
	return payload, nil
}

func success(status int) bool { return status >= 200 && status < 300 }

// classify translates a response envelope into a classified error, or nil for
// a decodable success. The order of the checks is contractual: 504, then 500,
// then 2xx bodies by their error prefix, then any remaining status.
func classify(op string, status int, body string) error {
	switch {
	case status == http.StatusGatewayTimeout:
		return &Error{Kind: KindTimeout, Op: op, Status: status, Body: body,
			Message: "server timed out. please try to reduce [count] or try later"}
	case status == http.StatusInternalServerError:
		return &Error{Kind: KindServer, Op: op, Status: status, Body: body,
			Message: "server error. please check your parameter or try later"}
	case success(status) && strings.HasPrefix(body, "error:auth failed"):
		return &Error{Kind: KindAuth, Op: op, Status: status, Body: body,
			Message: "auth failed, please check your credentials"}
	case success(status) && strings.HasPrefix(body, "error:"):
		return &Error{Kind: KindUnknown, Op: op, Status: status, Body: body,
			Message: fmt.Sprintf("error return with ok status. message: %s", body)}
	case success(status):
		return nil
	default:
		return &Error{Kind: KindUnknown, Op: op, Status: status, Body: body,
			Message: fmt.Sprintf(
				"post returns unsuccessful with status %d. message: %s", status, body)}
	}
}

// post sends the payload as a single JSON POST and returns the body of a
// successfully classified response. There is no retry here: callers wanting
// retries layer them on top of the classified errors.
func (c *Client) post(ctx context.Context, op string, payload map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Op: op,
			Message: "failed to encode the payload", Err: err}
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.url, bytes.NewReader(encoded))
	if err != nil {
		return "", &Error{Kind: KindUnknown, Op: op,
			Message: "failed to create a request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Op: op,
			Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &Error{Kind: KindUnknown, Op: op, Status: resp.StatusCode,
			Message: "failed to read the response body", Err: err}
	}
	body := string(raw)
	logging.Debugf(ctx, "%s: status %d, %d byte body", op, resp.StatusCode, len(raw))
	if err := classify(op, resp.StatusCode, body); err != nil {
		return "", err
	}
	return body, nil
}

// decodeBody turns a successfully classified body into the caller-facing
// value: string, []string, *table.Table or a generic JSON value.
func decodeBody(op, body string, format resultFormat) (interface{}, error) {
	switch format {
	case formatText:
		return body, nil
	case formatLines:
		return strings.Split(body, "\n"), nil
	case formatTable:
		t, err := table.FromCSV(body)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Op: op, Body: body,
				Message: "failed to parse a table body", Err: err}
		}
		return t, nil
	case formatJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, &Error{Kind: KindUnknown, Op: op, Body: body,
				Message: "failed to parse a JSON body", Err: err}
		}
		return v, nil
	}
	panic(errors.Reason("unsupported result format: %d", format))
}

// call is the dispatcher: one remote operation, explicitly named, through
// payload construction, transmission, classification and decoding.
func (c *Client) call(ctx context.Context, op string, params Params, format resultFormat, withToken bool) (interface{}, error) {
	payload, err := c.buildPayload(op, params, withToken)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, op, payload)
	if err != nil {
		return nil, err
	}
	return decodeBody(op, body, format)
}

// dispatch executes a cataloged operation, decoding per its catalog entry. It
// panics on an uncataloged name: the wrapper methods and the catalog move
// together.
func (c *Client) dispatch(ctx context.Context, op string, params Params) (interface{}, error) {
	entry, ok := operations[op]
	if !ok {
		panic(errors.Reason("operation '%s' is not in the catalog", op))
	}
	return c.call(ctx, op, params, entry.format, true)
}

func (c *Client) tableOp(ctx context.Context, op string, params Params) (*table.Table, error) {
	v, err := c.dispatch(ctx, op, params)
	if err != nil {
		return nil, err
	}
	return v.(*table.Table), nil
}

func (c *Client) linesOp(ctx context.Context, op string, params Params) ([]string, error) {
	v, err := c.dispatch(ctx, op, params)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// CallText executes an operation and returns the body verbatim. This and the
// other Call* methods are the raw entry points: they take any method name,
// so endpoints the service adds later remain reachable before a wrapper
// exists. Cataloged operations are still validated.
func (c *Client) CallText(ctx context.Context, op string, params Params) (string, error) {
	v, err := c.call(ctx, op, params, formatText, true)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// CallLines executes an operation and splits the body on newlines. A body
// ending in a newline yields a trailing empty string.
func (c *Client) CallLines(ctx context.Context, op string, params Params) ([]string, error) {
	v, err := c.call(ctx, op, params, formatLines, true)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// CallTable executes an operation and parses the body as comma-separated
// text; the first line is the column header.
func (c *Client) CallTable(ctx context.Context, op string, params Params) (*table.Table, error) {
	v, err := c.call(ctx, op, params, formatTable, true)
	if err != nil {
		return nil, err
	}
	return v.(*table.Table), nil
}

// CallJSON executes an operation and parses the body as a generic JSON value.
func (c *Client) CallJSON(ctx context.Context, op string, params Params) (interface{}, error) {
	return c.call(ctx, op, params, formatJSON, true)
}
