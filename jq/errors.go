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

import "errors"

// Kind classifies a failed call. Exactly one kind is assigned per failure,
// following the service's signaling: HTTP 504 and 500 for timeouts and server
// errors, "error:"-prefixed 2xx bodies for application errors, and local
// validation failures which never reach the network.
type Kind string

const (
	// KindValidation is a local failure: malformed date parameter, missing
	// required parameter, enum or bound violation, or a dispatch attempted
	// without a token. No HTTP request is made.
	KindValidation Kind = "validation"
	// KindTimeout is the service's own timeout signal, HTTP 504. Retriable,
	// possibly with a reduced count parameter.
	KindTimeout Kind = "timeout"
	// KindServer is HTTP 500. Retriable, or the parameters need a second look.
	KindServer Kind = "server"
	// KindAuth is a 2xx response whose body starts with "error:auth failed".
	// During initialization it triggers minting a new token; during a data
	// call it means the token expired and Initialize must be called again.
	KindAuth Kind = "auth"
	// KindUnknown is any other failure: an "error:"-prefixed 2xx body, an
	// unclassified HTTP status, or a transport or decoding breakdown.
	KindUnknown Kind = "unknown"
)

// Error is a classified failure of a remote call, or of the local validation
// preceding it.
type Error struct {
	Kind    Kind
	Op      string // wire method name, when known
	Status  int    // HTTP status code, when a response was received
	Body    string // response body, kept for diagnostics
	Message string // user-visible description
	Err     error  // underlying cause, if any
}

var _ error = &Error{}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification of err. Errors not created by this
// package count as KindUnknown; nil has no kind and yields "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsValidation checks for a local validation failure, raised before any
// network I/O.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsTimeout checks for the service's 504 timeout signal.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsServer checks for an HTTP 500 server failure.
func IsServer(err error) bool { return KindOf(err) == KindServer }

// IsAuth checks for an authentication failure; the caller is expected to
// re-initialize the client.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsUnknown checks for an unclassified failure.
func IsUnknown(err error) bool {
	return err != nil && KindOf(err) == KindUnknown
}

// Retriable reports whether the failure may resolve on its own: the service
// timed out or failed internally. Retry loops live strictly outside the
// dispatch path.
func Retriable(err error) bool {
	k := KindOf(err)
	return k == KindTimeout || k == KindServer
}
