package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(10*time.Second, 8)

	assert.Equal(t, 10*time.Second, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 8, tr.MaxIdleConnsPerHost)
	assert.NotNil(t, tr.Proxy)
}

func TestNewHTTPClient_MinimumIdleConns(t *testing.T) {
	t.Parallel()

	tr := NewHTTPClient(time.Second, 0).Transport.(*http.Transport)
	assert.Equal(t, 2, tr.MaxIdleConnsPerHost)
}
