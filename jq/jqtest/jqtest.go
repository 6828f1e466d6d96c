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

// Package jqtest implements an in-process imitation of the JQData service
// for tests: canned responses out, decoded request payloads in.
package jqtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Response is a single canned reply. A zero Status means 200.
type Response struct {
	Status int
	Body   string
}

// Request records one request received by the Server. Method is the "method"
// field of the decoded payload, when present.
type Request struct {
	Path        string
	ContentType string
	Method      string
	Payload     map[string]interface{}
}

// Server is a test double of the service. Set Responses before issuing
// requests; each request consumes the head of the queue, and an empty queue
// answers 200 with an empty body. Requests may arrive concurrently.
type Server struct {
	Responses []Response

	mu       sync.Mutex
	requests []Request
	server   *httptest.Server
}

// NewServer starts the test server. Call Close when done with it.
func NewServer() *Server {
	s := &Server{}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	raw, _ := io.ReadAll(r.Body)
	var payload map[string]interface{}
	_ = json.Unmarshal(raw, &payload) // non-JSON payloads record as nil
	method, _ := payload["method"].(string)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Method:      method,
		Payload:     payload,
	})
	var resp Response
	if len(s.Responses) > 0 {
		resp = s.Responses[0]
		s.Responses = s.Responses[1:]
	}
	s.mu.Unlock()

	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.WriteHeader(resp.Status)
	io.WriteString(w, resp.Body)
}

// URL of the server, to be used as the client's endpoint.
func (s *Server) URL() string { return s.server.URL }

// Client returns an HTTP client configured to reach the server.
func (s *Server) Client() *http.Client { return s.server.Client() }

// Close shuts the server down.
func (s *Server) Close() { s.server.Close() }

// RequestCount returns the number of requests received so far.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the recorded requests in order of arrival.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]Request, len(s.requests))
	copy(res, s.requests)
	return res
}

// LastRequest returns the most recent recorded request, or nil when none
// arrived yet.
func (s *Server) LastRequest() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	r := s.requests[len(s.requests)-1]
	return &r
}
