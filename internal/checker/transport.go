package checker

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"proxyvet/internal/proxyaddr"

	"golang.org/x/net/proxy"
)

// BuildTransport returns a one-shot transport that routes through the given
// proxy. Keep-alives are disabled: every check should prove a fresh
// connection, not reuse one from an earlier attempt.
func BuildTransport(target *proxyaddr.Proxy, timeout time.Duration) (*http.Transport, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 0,
		}).DialContext,
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   0,
		IdleConnTimeout:       0,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	switch target.Type {
	case "http", "https":
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   target.Addr(),
		}
		if target.HasAuth() {
			proxyURL.User = url.UserPassword(target.Username, target.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)

	default: // socks4, socks5
		var auth *proxy.Auth
		if target.HasAuth() {
			auth = &proxy.Auth{User: target.Username, Password: target.Password}
		}
		socksDialer, err := proxy.SOCKS5("tcp", target.Addr(), auth, &net.Dialer{
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if contextDialer, ok := socksDialer.(proxy.ContextDialer); ok {
				return contextDialer.DialContext(ctx, network, addr)
			}
			return socksDialer.Dial(network, addr)
		}
	}

	return transport, nil
}
