package server

import (
	"encoding/json"
	"net/http"

	"proxyvet/internal/config"

	"github.com/charmbracelet/log"
)

func getGlobalSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.GetConfig())
}

func saveSettings(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		log.Error("Error decoding request body:", "error", err)
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	config.SetConfig(newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Configuration updated successfully"})
}
