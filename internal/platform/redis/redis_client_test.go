package redis

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cache:6379", Config{Host: "cache", Port: 6379}.Addr())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	// 空いているポートを取得してすぐに閉じる
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rdb, err := NewRedisClient(context.Background(), Config{Host: "127.0.0.1", Port: port}, logger)

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
