package checker

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"proxyvet/internal/config"
	"proxyvet/internal/proxyaddr"
)

func configureChecker(t *testing.T, lookupURL string) {
	t.Helper()
	t.Chdir(t.TempDir()) // SetConfig persists to data/settings.json

	cfg := config.GetConfig()
	cfg.Checker.Timeout = 3000
	cfg.Checker.Retries = 1
	cfg.Checker.IpLookup = lookupURL
	cfg.StripeProbe.URL = lookupURL
	cfg.StripeProbe.Timeout = 3000
	config.SetConfig(cfg)
}

func proxyFromServer(t *testing.T, srv *httptest.Server) *proxyaddr.Proxy {
	t.Helper()

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split server address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	return &proxyaddr.Proxy{Type: "http", Host: host, Port: port}
}

func TestCheckThroughHTTPProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "203.0.113.77")
	}))
	defer srv.Close()

	configureChecker(t, "http://egress.test/ip")
	target := proxyFromServer(t, srv)

	result := Check(context.Background(), target, target.Addr())

	if !result.Success {
		t.Fatalf("check failed: %s", result.Message)
	}
	if result.EgressIP != "203.0.113.77" {
		t.Fatalf("egress IP was %q, want 203.0.113.77", result.EgressIP)
	}
	if !result.Static {
		t.Fatal("raw IP proxy should classify as static")
	}
}

func TestCheckFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	configureChecker(t, "http://egress.test/ip")
	target := proxyFromServer(t, srv)

	result := Check(context.Background(), target, "rotating.pool.example:1080")

	if result.Success {
		t.Fatal("check against dead proxy reported success")
	}
	if result.Message == "" {
		t.Fatal("failed check carried no diagnostic message")
	}
	if result.Static {
		t.Fatal("classifier verdict was lost on failure")
	}
}

func TestCheckHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	configureChecker(t, "http://egress.test/ip")
	target := proxyFromServer(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	started := time.Now()
	result := Check(ctx, target, target.Addr())

	if result.Success {
		t.Fatal("cancelled check reported success")
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("cancellation did not abort the request, took %s", elapsed)
	}
}

func TestRequestWithRetriesDropsBodyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	target := proxyFromServer(t, srv)

	body, err := requestWithRetries(context.Background(), target, "http://egress.test/ip", time.Second, 2)
	if err == nil {
		t.Fatal("request against dead proxy returned no error")
	}
	if body != "" {
		t.Fatalf("error path returned body %q, want empty", body)
	}
}

func TestCheckStripeBlockedStatus(t *testing.T) {
	tests := []struct {
		status  int
		success bool
		blocked bool
	}{
		{http.StatusUnauthorized, true, false},
		{http.StatusOK, true, false},
		{http.StatusForbidden, true, true},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		configureChecker(t, "http://api.stripe.test/v1/tokens")
		target := proxyFromServer(t, srv)

		result := CheckStripe(context.Background(), target)
		srv.Close()

		if result.Success != tc.success || result.Blocked != tc.blocked {
			t.Fatalf("status %d: got success=%t blocked=%t, want success=%t blocked=%t",
				tc.status, result.Success, result.Blocked, tc.success, tc.blocked)
		}
	}
}

func TestBuildTransport(t *testing.T) {
	t.Run("http proxy sets proxy URL", func(t *testing.T) {
		target := &proxyaddr.Proxy{Type: "http", Host: "10.0.0.1", Port: 8080, Username: "u", Password: "p"}
		transport, err := BuildTransport(target, time.Second)
		if err != nil {
			t.Fatalf("BuildTransport returned error: %v", err)
		}
		if transport.Proxy == nil {
			t.Fatal("transport has no proxy function")
		}

		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		proxyURL, err := transport.Proxy(req)
		if err != nil {
			t.Fatalf("proxy func returned error: %v", err)
		}
		if proxyURL.Host != "10.0.0.1:8080" {
			t.Fatalf("proxy URL host was %q", proxyURL.Host)
		}
		if proxyURL.User == nil {
			t.Fatal("proxy URL lost credentials")
		}
	})

	t.Run("socks5 proxy uses custom dialer", func(t *testing.T) {
		target := &proxyaddr.Proxy{Type: "socks5", Host: "10.0.0.1", Port: 1080}
		transport, err := BuildTransport(target, time.Second)
		if err != nil {
			t.Fatalf("BuildTransport returned error: %v", err)
		}
		if transport.Proxy != nil {
			t.Fatal("socks transport should not set an HTTP proxy URL")
		}
		if transport.DialContext == nil {
			t.Fatal("socks transport has no dialer")
		}
	})
}

func TestResultCacheKeyNormalizes(t *testing.T) {
	first, err := proxyaddr.Parse("USER:pass:203.0.113.5:8080")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second, err := proxyaddr.Parse("user:pass@203.0.113.5:8080")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if resultCacheKey(first) != resultCacheKey(second) {
		t.Fatal("equivalent proxies map to different cache keys")
	}

	third, _ := proxyaddr.Parse("user:pass@203.0.113.5:8081")
	if resultCacheKey(first) == resultCacheKey(third) {
		t.Fatal("different proxies share a cache key")
	}
}
