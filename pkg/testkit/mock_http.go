// Package testkit provides test doubles for the outgoing HTTP surface.
//
// MockTransport implements http.RoundTripper and is installed on the shared
// client so the backend never has to be running in tests:
//
//	mt := testkit.NewMockTransport(
//	    &testkit.Stub{Method: "GET", Path: "/carts", Status: 200, Body: snapshot},
//	)
//	defer mt.Install()()
//	// ... exercise code ...
//	mt.AssertAllCalled(t)
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	zhttp "github.com/rsharma-dev/zaika/pkg/http"
)

// Stub describes one canned response for a method + URL path pair.
type Stub struct {
	Method string
	Path   string      // matched exactly against req.URL.Path
	Status int         // defaults to 200
	Body   interface{} // JSON-marshalled; string and []byte pass through raw
	Err    error       // when set, the round trip fails with this error
	Times  int         // maximum matches; 0 = unlimited

	calls  int
	bodies [][]byte // captured request bodies
}

// MockTransport matches outgoing requests against stubs, in order.
type MockTransport struct {
	mu         sync.Mutex
	stubs      []*Stub
	unexpected []string
}

// NewMockTransport builds a transport serving the given stubs.
func NewMockTransport(stubs ...*Stub) *MockTransport {
	return &MockTransport{stubs: stubs}
}

// Install swaps the shared client's transport for mt and returns the restore
// func. Use with defer.
func (mt *MockTransport) Install() func() {
	zhttp.DefaultClient.Transport = mt
	return zhttp.ResetTransport
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	for _, s := range mt.stubs {
		if s.Method != req.Method || s.Path != req.URL.Path {
			continue
		}
		if s.Times > 0 && s.calls >= s.Times {
			continue
		}

		s.calls++
		s.bodies = append(s.bodies, body)

		if s.Err != nil {
			return nil, s.Err
		}
		return buildResponse(req, s)
	}

	mt.unexpected = append(mt.unexpected, req.Method+" "+req.URL.Path)
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     jsonHeader(),
		Body:       io.NopCloser(strings.NewReader(`{"error":"no stub configured"}`)),
		Request:    req,
	}, nil
}

// Calls returns how many times the method+path pair was matched.
func (mt *MockTransport) Calls(method, path string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	total := 0
	for _, s := range mt.stubs {
		if s.Method == method && s.Path == path {
			total += s.calls
		}
	}
	return total
}

// LastBody returns the most recent request body sent to method+path, or nil.
func (mt *MockTransport) LastBody(method, path string) []byte {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var last []byte
	for _, s := range mt.stubs {
		if s.Method == method && s.Path == path && len(s.bodies) > 0 {
			last = s.bodies[len(s.bodies)-1]
		}
	}
	return last
}

// AssertAllCalled fails the test if any stub was never matched, or if an
// unstubbed endpoint was hit.
func (mt *MockTransport) AssertAllCalled(t *testing.T) {
	t.Helper()
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if s.calls == 0 {
			t.Errorf("testkit: stub %s %s was never called", s.Method, s.Path)
		}
	}
	for _, u := range mt.unexpected {
		t.Errorf("testkit: unexpected outgoing call %s", u)
	}
}

func buildResponse(req *http.Request, s *Stub) (*http.Response, error) {
	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}

	var raw []byte
	switch v := s.Body.(type) {
	case nil:
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		var err error
		raw, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("testkit: marshal stub body: %w", err)
		}
	}

	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     jsonHeader(),
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Request:    req,
	}, nil
}

func jsonHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}
