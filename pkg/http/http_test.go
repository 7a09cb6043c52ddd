package http

import (
	"errors"
	"io"
	gohttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport fails n times before succeeding, recording every request.
type countingTransport struct {
	failures int
	calls    int
	lastReq  *gohttp.Request
}

func (ct *countingTransport) RoundTrip(req *gohttp.Request) (*gohttp.Response, error) {
	ct.calls++
	ct.lastReq = req
	if ct.calls <= ct.failures {
		return nil, errors.New("connection refused")
	}
	return &gohttp.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     gohttp.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		Request:    req,
	}, nil
}

func install(t *testing.T, rt gohttp.RoundTripper) {
	t.Helper()
	DefaultClient.Transport = rt
	t.Cleanup(ResetTransport)
}

func TestSendDefaultsToSingleAttempt(t *testing.T) {
	ct := &countingTransport{failures: 1}
	install(t, ct)

	_, err := Get("http://backend/api/v1/carts").Send()
	require.Error(t, err)
	assert.Equal(t, 1, ct.calls)
}

func TestRetryReplaysUpToNAttempts(t *testing.T) {
	ct := &countingTransport{failures: 2}
	install(t, ct)

	resp, err := Get("http://backend/api/v1/foods").
		Retry(3, time.Millisecond).
		Send()
	require.NoError(t, err)
	assert.Equal(t, 3, ct.calls)
	assert.True(t, resp.OK())
}

func TestBearerSkipsBlankToken(t *testing.T) {
	ct := &countingTransport{}
	install(t, ct)

	_, err := Get("http://backend/api/v1/foods").Bearer("").Send()
	require.NoError(t, err)
	assert.Empty(t, ct.lastReq.Header.Get("Authorization"))

	_, err = Get("http://backend/api/v1/foods").Bearer("tok").Send()
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", ct.lastReq.Header.Get("Authorization"))
}

func TestQueryAppended(t *testing.T) {
	ct := &countingTransport{}
	install(t, ct)

	_, err := Get("http://backend/api/v1/foods").Query("category", "pizza").Send()
	require.NoError(t, err)
	assert.Equal(t, "category=pizza", ct.lastReq.URL.RawQuery)
}

func TestJSONBodySetsContentType(t *testing.T) {
	ct := &countingTransport{}
	install(t, ct)

	_, err := Post("http://backend/api/v1/carts").
		Body(map[string]int{"pizza": 2}).
		Send()
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct.lastReq.Header.Get("Content-Type"))
}

func TestThrowOnErrorStatus(t *testing.T) {
	resp := &Response{StatusCode: 422, Raw: []byte(`{"message":"out of stock"}`)}

	err := resp.Throw()
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 422, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "out of stock")

	ok := &Response{StatusCode: 201}
	assert.NoError(t, ok.Throw())
}

func TestResponseJSONAndText(t *testing.T) {
	resp := &Response{StatusCode: 200, Raw: []byte(`{"name":"Margherita"}`)}

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, "Margherita", out.Name)
	assert.Equal(t, `{"name":"Margherita"}`, resp.Text())
}
