package recheck

import (
	"context"
	"time"

	"proxyvet/internal/checker"
	"proxyvet/internal/config"
	"proxyvet/internal/database"
	"proxyvet/internal/domain"
	"proxyvet/internal/geo"
	"proxyvet/internal/proxyaddr"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// StartRoutine periodically revalidates every stored proxy and appends the
// verdicts to its history. The interval follows the settings live via the
// config listener channel.
func StartRoutine(ctx context.Context) {
	intervalUpdates := config.RecheckIntervalUpdates()
	interval := <-intervalUpdates

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case interval = <-intervalUpdates:
			timer.Reset(interval)
			log.Debug("Recheck interval updated", "interval", interval)
		case <-timer.C:
			runOnce(ctx)
			timer.Reset(interval)
		}
	}
}

func runOnce(ctx context.Context) {
	cfg := config.GetConfig()
	if !cfg.Checker.RecheckEnabled {
		return
	}

	proxies, err := database.GetProxiesForRecheck()
	if err != nil {
		log.Error("Could not load proxies for recheck", "error", err)
		return
	}
	if len(proxies) == 0 {
		return
	}

	threads := int(cfg.Checker.Threads)
	if threads < 1 {
		threads = 1
	}

	log.Info("Rechecking stored proxies", "count", len(proxies), "threads", threads)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, proxy := range proxies {
		group.Go(func() error {
			recheckOne(groupCtx, proxy)
			return nil
		})
	}

	_ = group.Wait()
}

func recheckOne(ctx context.Context, proxy domain.Proxy) {
	parsed := proxy.ToParsed()
	result := checker.Check(ctx, parsed, proxyaddr.Format(parsed))

	record := domain.CheckResult{
		ProxyID:      proxy.ID,
		Kind:         domain.CheckKindConnectivity,
		Success:      result.Success,
		Static:       result.Static,
		EgressIP:     result.EgressIP,
		ResponseTime: uint32(result.ResponseTime),
		Message:      result.Message,
	}
	if err := database.SaveCheckResult(&record); err != nil {
		log.Error("Could not save recheck result", "proxy", proxy.Addr(), "error", err)
		return
	}

	info := geo.Lookup(proxy.Host)
	if err := database.UpdateProxyVerdict(proxy.ID, result.Static, info.Country, info.EstimatedType); err != nil {
		log.Error("Could not update proxy verdict", "proxy", proxy.Addr(), "error", err)
	}
}
