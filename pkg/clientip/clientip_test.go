package clientip_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/pkg/clientip"
	"github.com/kushi-labs/kushi/pkg/logger"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", nil, "192.0.2.1"},
		{"remote addr without port", nil, "192.0.2.1", nil, "192.0.2.1"},
		{"untrusted header ignored", nil, "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "192.0.2.1"},
		{"trusted forwarded for", []string{"x-forwarded-for"}, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "garbage, 203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"priority order", []string{"CF-Connecting-IP", "X-Real-IP"}, "10.0.0.1:80", map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Real-IP": "203.0.113.1"}, "198.51.100.7"},
		{"invalid trusted header falls through", []string{"X-Real-IP"}, "10.0.0.1:80", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1"},
		{"ipv6 normalized", nil, "[2001:db8:0:0::1]:443", nil, "2001:db8::1"},
		{"invalid remote", nil, "not-an-ip", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.New(tt.trusted...).IP(r))
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	res := clientip.NewFromConfig(clientip.Config{TrustedHeaders: " X-Real-IP , "})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "203.0.113.5")
	assert.Equal(t, "203.0.113.5", res.IP(r))

	empty := clientip.NewFromConfig(clientip.Config{})
	r.RemoteAddr = "192.0.2.4:1"
	assert.Equal(t, "192.0.2.4", empty.IP(r))
}

func TestMiddlewareAndLogExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithContextExtractors(clientip.LogExtractor()),
	)

	h := clientip.New().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "192.0.2.8", clientip.FromContext(r.Context()))
		log.InfoContext(r.Context(), "login failed")
	}))

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "192.0.2.8:5555"
	h.ServeHTTP(httptest.NewRecorder(), r)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "192.0.2.8", entry["client_ip"])

	assert.Empty(t, clientip.FromContext(t.Context()))
}
