package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"proxyvet/internal/auth"
	"proxyvet/internal/metrics"

	"github.com/charmbracelet/log"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newRouter() *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /register", registerUser)
	router.HandleFunc("POST /login", loginUser)
	router.Handle("GET /checkLogin", auth.RequireAuth(http.HandlerFunc(checkLogin)))
	router.Handle("POST /changePassword", auth.RequireAuth(http.HandlerFunc(changePassword)))

	router.Handle("POST /api/proxy/parse", auth.RequireAuth(http.HandlerFunc(parseProxy)))
	router.Handle("POST /api/proxy/check", auth.RequireAuth(http.HandlerFunc(checkProxy)))
	router.Handle("POST /api/proxy/check-stripe", auth.RequireAuth(http.HandlerFunc(checkProxyStripe)))
	router.Handle("GET /api/proxy/history/{page}", auth.RequireAuth(http.HandlerFunc(getCheckHistoryPage)))
	router.Handle("GET /api/proxy/count", auth.RequireAuth(http.HandlerFunc(getCheckResultCount)))

	router.Handle("GET /global/settings", auth.IsAdmin(http.HandlerFunc(getGlobalSettings)))
	router.Handle("POST /saveSettings", auth.IsAdmin(http.HandlerFunc(saveSettings)))

	router.Handle("GET /metrics", metrics.Handler())

	return router
}

func OpenRoutes(port int) error {
	router := newRouter()
	log.Debug("Routes opened")

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: enableCORS(router),
	}

	log.Infof("Starting proxyvet backend on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}
