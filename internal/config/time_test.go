package config

import (
	"testing"
	"time"
)

func TestTimerMilliseconds(t *testing.T) {
	timer := Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
	want := uint64((24*60*60 + 2*60*60 + 3*60 + 4) * 1000)

	if got := TimerMilliseconds(timer); got != want {
		t.Fatalf("TimerMilliseconds returned %d, want %d", got, want)
	}
}

func TestCalculateBetweenTime(t *testing.T) {
	t.Run("enforces minimum interval", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{}); got != time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1s", got)
		}
	})

	t.Run("returns configured duration", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{Minutes: 1, Seconds: 30}); got != 90*time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1m30s", got)
		}
	})
}

func TestRecheckIntervalUpdates(t *testing.T) {
	origCfg := GetConfig()
	origInterval := GetRecheckInterval()
	t.Cleanup(func() {
		configValue.Store(origCfg)
		recheckInterval.Store(origInterval)
	})

	cfg := origCfg
	cfg.Checker.RecheckTimer = Timer{Minutes: 30}
	applyConfigUpdate(cfg, false)

	select {
	case got := <-RecheckIntervalUpdates():
		if got != 30*time.Minute {
			t.Fatalf("interval update was %s, want 30m", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no interval update received")
	}
}
