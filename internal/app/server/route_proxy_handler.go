package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"proxyvet/internal/api/dto"
	"proxyvet/internal/auth"
	"proxyvet/internal/checker"
	"proxyvet/internal/database"
	"proxyvet/internal/domain"
	"proxyvet/internal/geo"
	"proxyvet/internal/metrics"
	"proxyvet/internal/proxyaddr"
	"proxyvet/internal/support"

	"github.com/charmbracelet/log"
)

// decodeCheckRequest accepts either the raw user-entered string or an
// already structured proxy. The raw string wins when both are present; the
// classifier wants the original input.
func decodeCheckRequest(r *http.Request) (*proxyaddr.Proxy, string, error) {
	var request dto.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, "", err
	}

	if request.Input != "" {
		parsed, err := proxyaddr.Parse(request.Input)
		return parsed, request.Input, err
	}

	if request.Proxy == nil {
		return nil, "", proxyaddr.ErrUnrecognized
	}

	// Round-trip through the parser so a structured request obeys the same
	// validation as a raw one.
	raw := proxyaddr.Format(request.Proxy)
	parsed, err := proxyaddr.Parse(raw)
	return parsed, raw, err
}

func parseProxy(w http.ResponseWriter, r *http.Request) {
	parsed, raw, err := decodeCheckRequest(r)
	if err != nil {
		writeError(w, "proxy format not recognized", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, dto.ParseResponse{
		Proxy:    parsed,
		IsStatic: proxyaddr.LooksStatic(raw),
	})
}

func checkProxy(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	parsed, raw, err := decodeCheckRequest(r)
	if err != nil {
		writeError(w, "proxy format not recognized", http.StatusBadRequest)
		return
	}

	redisClient, redisErr := support.GetRedisClient()
	if redisErr != nil {
		log.Debug("Result cache unavailable", "error", redisErr)
	}

	if cached, ok := checker.CachedResult(r.Context(), redisClient, parsed); ok {
		metrics.ObserveCacheHit()
		writeJSON(w, http.StatusOK, dto.CheckResponse{
			Success:      cached.Success,
			IsStatic:     cached.Static,
			IP:           cached.EgressIP,
			ResponseTime: cached.ResponseTime,
			Message:      cached.Message,
			Cached:       true,
		})
		return
	}

	result := checker.Check(r.Context(), parsed, raw)
	checker.StoreResult(r.Context(), redisClient, parsed, result)

	persistCheck(userID, parsed, domain.CheckResult{
		Kind:         domain.CheckKindConnectivity,
		Success:      result.Success,
		Static:       result.Static,
		EgressIP:     result.EgressIP,
		ResponseTime: uint32(result.ResponseTime),
		Message:      result.Message,
	}, result.Static)

	writeJSON(w, http.StatusOK, dto.CheckResponse{
		Success:      result.Success,
		IsStatic:     result.Static,
		IP:           result.EgressIP,
		ResponseTime: result.ResponseTime,
		Message:      result.Message,
	})
}

func checkProxyStripe(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	parsed, raw, err := decodeCheckRequest(r)
	if err != nil {
		writeError(w, "proxy format not recognized", http.StatusBadRequest)
		return
	}

	result := checker.CheckStripe(r.Context(), parsed)

	persistCheck(userID, parsed, domain.CheckResult{
		Kind:         domain.CheckKindStripe,
		Success:      result.Success,
		Blocked:      result.Blocked,
		Static:       proxyaddr.LooksStatic(raw),
		ResponseTime: uint32(result.ResponseTime),
		Message:      result.Message,
	}, false)

	writeJSON(w, http.StatusOK, dto.StripeCheckResponse{
		Success:      result.Success,
		Blocked:      result.Blocked,
		ResponseTime: result.ResponseTime,
		Message:      result.Message,
	})
}

// persistCheck stores the proxy and the verdict, and kicks off geo
// enrichment in the background. Persistence problems are logged, never
// surfaced: the check verdict already happened.
func persistCheck(userID uint, parsed *proxyaddr.Proxy, record domain.CheckResult, static bool) {
	if database.DB == nil {
		return
	}

	proxy, err := database.UpsertProxyForUser(domain.FromParsed(parsed), userID)
	if err != nil {
		log.Error("Could not store proxy", "error", err)
		return
	}

	record.ProxyID = proxy.ID
	if err := database.SaveCheckResult(&record); err != nil {
		log.Error("Could not store check result", "error", err)
	}

	go func() {
		info := geo.Lookup(proxy.Host)
		if err := database.UpdateProxyVerdict(proxy.ID, static, info.Country, info.EstimatedType); err != nil {
			log.Error("Could not update proxy verdict", "error", err)
		}
	}()
}

func getCheckHistoryPage(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		writeError(w, "Invalid page", http.StatusBadRequest)
		return
	}

	pageSize := 0
	if rawPageSize := r.URL.Query().Get("pageSize"); rawPageSize != "" {
		if parsedPageSize, parseErr := strconv.Atoi(rawPageSize); parseErr == nil && parsedPageSize > 0 {
			pageSize = parsedPageSize
		}
	}

	results, total, err := database.GetCheckHistoryPage(userID, page, pageSize)
	if err != nil {
		log.Error("Could not load check history", "error", err)
		writeError(w, "Failed to retrieve history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryPage{
		Results: results,
		Total:   total,
	})
}

func getCheckResultCount(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, database.GetCheckResultCount(userID))
}
