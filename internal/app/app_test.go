package app

import (
	"testing"

	"proxyvet/internal/config"

	"github.com/charmbracelet/log"
)

func TestReadPort(t *testing.T) {
	t.Setenv("PROXYVET_PORT_VALID", "12345")
	if got := readPort("PROXYVET_PORT_VALID"); got != 12345 {
		t.Fatalf("readPort returned %d, want 12345", got)
	}

	t.Setenv("PROXYVET_PORT_INVALID", "not-a-number")
	if got := readPort("PROXYVET_PORT_INVALID"); got != 0 {
		t.Fatalf("readPort with invalid value returned %d, want 0", got)
	}

	t.Setenv("PROXYVET_PORT_ZERO", "0")
	if got := readPort("PROXYVET_PORT_ZERO"); got != 0 {
		t.Fatalf("readPort with zero value returned %d, want 0", got)
	}
}

func TestLogLevelFollowsProductionMode(t *testing.T) {
	orig := config.InProductionMode
	t.Cleanup(func() { config.SetProductionMode(orig) })

	config.SetProductionMode(true)
	if got := logLevel(); got != log.InfoLevel {
		t.Fatalf("production log level was %v, want info", got)
	}

	config.SetProductionMode(false)
	if got := logLevel(); got != log.DebugLevel {
		t.Fatalf("development log level was %v, want debug", got)
	}
}

func TestResolvePortPrecedence(t *testing.T) {
	t.Setenv("PROXYVET_PRIMARY", "9001")
	t.Setenv("PROXYVET_LEGACY", "9002")

	if got := resolvePort("PROXYVET_PRIMARY", "PROXYVET_LEGACY", 8082); got != 9001 {
		t.Fatalf("primary env did not win, got %d", got)
	}

	t.Setenv("PROXYVET_PRIMARY", "")
	if got := resolvePort("PROXYVET_PRIMARY", "PROXYVET_LEGACY", 8082); got != 9002 {
		t.Fatalf("legacy env did not win, got %d", got)
	}

	t.Setenv("PROXYVET_LEGACY", "")
	if got := resolvePort("PROXYVET_PRIMARY", "PROXYVET_LEGACY", 8082); got != 8082 {
		t.Fatalf("fallback did not apply, got %d", got)
	}
}
