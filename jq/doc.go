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

// Package jq implements the HTTP API of JoinQuant (JQData), a China A-share
// market data service.
//
// Official documentation is at https://dataapi.joinquant.com/docs .
//
// The entire API is served from a single URL. Every call is a JSON-encoded
// POST whose "method" field selects the operation, and every response is a
// plain text body: a single value, newline-separated values, or CSV with a
// header row (get_fund_info alone returns JSON). The Client wraps each
// documented operation in a typed method returning a string slice or a
// *table.Table; the CallText, CallLines, CallTable and CallJSON methods take
// any operation name, so endpoints added by the service remain reachable
// before a wrapper exists.
//
// Calls other than token acquisition require a token, obtained by
// (*Client).Initialize from the account credentials. A token is valid until
// the end of the calendar day it was issued; a data call failing with IsAuth
// means it is time to call Initialize again.
//
// Typed downloads of the security universe and daily price bars are
// implemented in the equities subpackage; jqtest implements an in-process
// service for tests.
package jq
