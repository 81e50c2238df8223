package config

import (
	"sync"
	"sync/atomic"
	"time"
)

const defaultRecheckInterval = 6 * time.Hour

var (
	recheckInterval          atomic.Value
	recheckIntervalListeners []chan time.Duration
	listenersMu              sync.Mutex
)

func init() {
	recheckInterval.Store(defaultRecheckInterval)
}

func refreshIntervals() {
	cfg := GetConfig()
	setRecheckInterval(calculateRecheckInterval(cfg))
}

// CalculateBetweenTime converts a Timer into a duration, enforcing a one
// second minimum so a zeroed timer cannot produce a busy loop.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := TimerMilliseconds(timer)

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func TimerMilliseconds(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func GetRecheckInterval() time.Duration {
	return recheckInterval.Load().(time.Duration)
}

// RecheckIntervalUpdates returns a channel that receives the current interval
// immediately and every later change, so the recheck loop can retime itself
// without polling the config.
func RecheckIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	recheckIntervalListeners = append(recheckIntervalListeners, ch)
	listenersMu.Unlock()

	ch <- GetRecheckInterval()
	return ch
}

func setRecheckInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultRecheckInterval
	}

	if GetRecheckInterval() == interval {
		return
	}

	recheckInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range recheckIntervalListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

func calculateRecheckInterval(cfg Config) time.Duration {
	timer := cfg.Checker.RecheckTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultRecheckInterval
	}
	return CalculateBetweenTime(timer)
}
