package telemetry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestHeaderAttributesRedacts(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Link", `<https://x/next>; rel="next"`)

	var attrs []attribute.KeyValue
	headerAttributes(&attrs, "request", headers)

	require.Len(t, attrs, 1)
	require.Equal(t, attribute.Key("request/header: Link"), attrs[0].Key)
	for _, a := range attrs {
		require.NotContains(t, a.Value.Emit(), "secret")
	}
}

func TestRateLimitRemaining(t *testing.T) {
	headers := http.Header{}
	_, ok := rateLimitRemaining(headers)
	require.False(t, ok)

	headers.Set("X-Rate-Limit-Remaining", "612.5")
	remaining, ok := rateLimitRemaining(headers)
	require.True(t, ok)
	require.Equal(t, 612.5, remaining)

	headers.Set("X-Rate-Limit-Remaining", "lots")
	_, ok = rateLimitRemaining(headers)
	require.False(t, ok)
}
