package checker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"proxyvet/internal/config"
	"proxyvet/internal/proxyaddr"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const resultCacheKeyPrefix = "proxyvet:check:"

// resultCacheKey derives a stable key from the normalized proxy string, so
// the same address entered in a different field order hits the same entry.
func resultCacheKey(target *proxyaddr.Proxy) string {
	normalized := strings.ToLower(proxyaddr.Format(target))
	sum := sha256.Sum256([]byte(normalized))
	return resultCacheKeyPrefix + hex.EncodeToString(sum[:])
}

// CachedResult returns an earlier verdict for the same proxy, if one is
// still live. Only successful verdicts are ever stored, so a failed check
// never blocks an immediate retry.
func CachedResult(ctx context.Context, client *redis.Client, target *proxyaddr.Proxy) (Result, bool) {
	if client == nil {
		return Result{}, false
	}

	data, err := client.Get(ctx, resultCacheKey(target)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("result cache read failed", "error", err)
		}
		return Result{}, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		log.Warn("result cache entry corrupt", "error", err)
		return Result{}, false
	}

	return result, true
}

// StoreResult caches a successful verdict for the configured TTL. Failures
// are not cached.
func StoreResult(ctx context.Context, client *redis.Client, target *proxyaddr.Proxy, result Result) {
	if client == nil || !result.Success {
		return
	}

	ttl := time.Duration(config.GetConfig().Cache.ResultTTLMinutes) * time.Minute
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Warn("result cache encode failed", "error", err)
		return
	}

	if err := client.Set(ctx, resultCacheKey(target), data, ttl).Err(); err != nil {
		log.Warn("result cache write failed", "error", err)
	}
}
