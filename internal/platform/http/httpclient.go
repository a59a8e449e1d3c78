package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は上流API呼び出し用に設定されたHTTPクライアントを作成します。
//
// すべての銘柄のgoroutineが同じホストに接続するため、ホストごとのアイドル接続数を
// 同時実行数に合わせ、ページ取得ごとにTCP/TLS接続を張り直さないようにします。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
//   - timeout はリクエスト全体（ボディの読み込みを含む）の上限
func NewHTTPClient(timeout time.Duration, connsPerHost int) *http.Client {
	if connsPerHost < 2 {
		connsPerHost = 2
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   connsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
