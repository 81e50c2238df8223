package runtime

import (
	"context"
	"fmt"
	"os"
	"time"

	"proxyvet/internal/metrics"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	instanceKeyPrefix = "proxyvet:instance:"
	heartbeatInterval = 15 * time.Second
	heartbeatTTL      = 30 * time.Second
)

var instanceID = fmt.Sprintf("%s-%d-%d", hostname(), os.Getpid(), time.Now().UnixNano())

func hostname() string {
	name, _ := os.Hostname()
	return name
}

func heartbeatKey(id string) string {
	return instanceKeyPrefix + id
}

// StartInstanceHeartbeat keeps this instance's liveness key refreshed in
// redis and republishes the cluster-wide instance count as a gauge on every
// beat, so /metrics reports how many backends are alive.
func StartInstanceHeartbeat(ctx context.Context, client *redis.Client, interval, ttl time.Duration) {
	beat := func() {
		if err := client.SetEx(ctx, heartbeatKey(instanceID), "alive", ttl).Err(); err != nil {
			log.Error("Failed to update instance heartbeat", "key", heartbeatKey(instanceID), "error", err)
			return
		}

		count, err := CountActiveInstances(ctx, client)
		if err != nil {
			log.Warn("Failed to count active instances", "error", err)
			return
		}
		metrics.SetActiveInstances(count)
	}

	beat()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat()
		}
	}
}

func LaunchInstanceHeartbeat(parent context.Context, client *redis.Client) context.CancelFunc {
	ctx, cancel := context.WithCancel(parent)
	go StartInstanceHeartbeat(ctx, client, heartbeatInterval, heartbeatTTL)
	return cancel
}

// CountActiveInstances reports how many backend instances currently hold a
// live heartbeat key.
func CountActiveInstances(ctx context.Context, client *redis.Client) (int, error) {
	keys, err := client.Keys(ctx, instanceKeyPrefix+"*").Result()
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
