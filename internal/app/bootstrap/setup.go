package bootstrap

import (
	"context"

	"github.com/charmbracelet/log"

	"proxyvet/internal/config"
	"proxyvet/internal/database"
	"proxyvet/internal/jobs/recheck"
)

// Setup loads the settings file, connects the database and starts the
// background recheck routine. It must run before the API routes open.
func Setup(ctx context.Context) {
	config.ReadSettings()

	if _, err := database.SetupDB(); err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}

	go recheck.StartRoutine(ctx)
}
