package checker

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"proxyvet/internal/config"
	"proxyvet/internal/metrics"
	"proxyvet/internal/proxyaddr"
	"proxyvet/internal/support"
)

const maxResponseBodyLength = 4096

// Result is the verdict of a single connectivity check. A dial failure
// yields Success=false with a diagnostic message; the classifier verdict is
// reported either way so callers never lose the heuristic.
type Result struct {
	Success      bool   `json:"success"`
	Static       bool   `json:"isStatic"`
	EgressIP     string `json:"ip,omitempty"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message,omitempty"`
}

// StripeResult is the verdict of a payment-API reachability probe. It is
// kept separate from Result: reaching the open internet and reaching the
// payment processor are different questions.
type StripeResult struct {
	Success      bool   `json:"success"`
	Blocked      bool   `json:"blocked"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message,omitempty"`
}

// Check runs a full connectivity check through the proxy: classify the raw
// input, dial the configured lookup URL, and extract the observed egress IP.
// rawInput is the string as the user typed it; the classifier wants it
// before any normalization.
func Check(ctx context.Context, target *proxyaddr.Proxy, rawInput string) Result {
	cfg := config.GetConfig()

	result := Result{
		Static: proxyaddr.LooksStatic(rawInput, cfg.Classifier.RotatingKeywords...),
	}

	timeout := time.Duration(cfg.Checker.Timeout) * time.Millisecond
	retries := cfg.Checker.Retries
	if retries == 0 {
		retries = 1
	}

	lookupURL := cfg.Checker.IpLookup
	if cfg.Checker.UseHttpsForSocks && strings.HasPrefix(target.Type, "socks") {
		lookupURL = strings.Replace(lookupURL, "http://", "https://", 1)
	}

	started := time.Now()
	body, err := requestWithRetries(ctx, target, lookupURL, timeout, retries)
	result.ResponseTime = time.Since(started).Milliseconds()

	if err != nil {
		result.Message = checkFailureMessage(err)
		metrics.ObserveCheck("connectivity", "failed", time.Since(started))
		return result
	}

	result.Success = true
	result.EgressIP = support.FindIP(body)
	if result.EgressIP == "" {
		result.Message = "connected, but lookup response carried no address"
	}

	metrics.ObserveCheck("connectivity", "ok", time.Since(started))
	return result
}

// CheckStripe probes whether the proxy can reach the payment-processor API.
// Any HTTP response counts as reachable, including the 401 the API returns
// to unauthenticated callers; a 403 means the proxy's egress IP is blocked.
func CheckStripe(ctx context.Context, target *proxyaddr.Proxy) StripeResult {
	cfg := config.GetConfig()

	timeout := time.Duration(cfg.StripeProbe.Timeout) * time.Millisecond
	if timeout == 0 {
		timeout = time.Duration(cfg.Checker.Timeout) * time.Millisecond
	}

	var result StripeResult

	started := time.Now()
	status, err := requestStatus(ctx, target, cfg.StripeProbe.URL, timeout)
	result.ResponseTime = time.Since(started).Milliseconds()

	if err != nil {
		result.Message = checkFailureMessage(err)
		metrics.ObserveCheck("stripe", "failed", time.Since(started))
		return result
	}

	result.Success = true
	if status == http.StatusForbidden {
		result.Blocked = true
		result.Message = "payment API rejected the proxy's egress IP"
	}

	outcome := "ok"
	if result.Blocked {
		outcome = "blocked"
	}
	metrics.ObserveCheck("stripe", outcome, time.Since(started))
	return result
}

func requestWithRetries(ctx context.Context, target *proxyaddr.Proxy, siteURL string, timeout time.Duration, retries uint8) (string, error) {
	var err error

	for i := uint8(0); i < retries; i++ {
		var body string
		body, _, err = request(ctx, target, siteURL, timeout)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", err
}

func requestStatus(ctx context.Context, target *proxyaddr.Proxy, siteURL string, timeout time.Duration) (int, error) {
	_, status, err := request(ctx, target, siteURL, timeout)
	return status, err
}

// request performs one GET through the proxy. The request inherits ctx, so a
// superseded check is aborted instead of lingering until the timeout.
func request(ctx context.Context, target *proxyaddr.Proxy, siteURL string, timeout time.Duration) (string, int, error) {
	transport, err := BuildTransport(target, timeout)
	if err != nil {
		return "", 0, err
	}
	defer transport.CloseIdleConnections()

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Connection", "close")

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLength))
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}

func checkFailureMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "check cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "proxy did not respond before the timeout"
	default:
		return "could not connect through proxy"
	}
}
