package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "http://localhost:8080/api/v1", APIBaseURL())
	assert.Equal(t, 30*time.Second, HTTPTimeout())
	assert.Equal(t, "local", StorageDefault())
	assert.Equal(t, "127.0.0.1:43117", PaymentCallbackAddr())
}

func TestSetOverridesValue(t *testing.T) {
	require.NoError(t, Load())

	old := Get("API_BASE_URL", "")
	Set("API_BASE_URL", "http://staging:9090/api/v1")
	t.Cleanup(func() { Set("API_BASE_URL", old) })

	assert.Equal(t, "http://staging:9090/api/v1", APIBaseURL())
}

func TestGetFallback(t *testing.T) {
	require.NoError(t, Load())
	assert.Equal(t, "fallback", Get("NO_SUCH_KEY_EVER", "fallback"))
}

func TestHTTPTimeoutInvalidValueFallsBack(t *testing.T) {
	require.NoError(t, Load())

	old := Get("HTTP_TIMEOUT", "")
	Set("HTTP_TIMEOUT", "not-a-duration")
	t.Cleanup(func() { Set("HTTP_TIMEOUT", old) })

	assert.Equal(t, 30*time.Second, HTTPTimeout())
}
