package app

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"proxyvet/internal/app/bootstrap"
	"proxyvet/internal/app/server"
	"proxyvet/internal/config"
	"proxyvet/internal/jobs/runtime"
	"proxyvet/internal/support"
)

const defaultBackendPort = 8082

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	portFlag := flag.Int("port", defaultBackendPort, "Port for API server")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	config.SetProductionMode(*productionFlag)
	log.SetLevel(logLevel())

	port := resolvePort("BACKEND_PORT", "PORT", *portFlag)

	if redisClient, err := support.GetRedisClient(); err != nil {
		log.Warn("Redis unavailable, result cache and heartbeat disabled", "error", err)
	} else {
		heartbeatCancel := runtime.LaunchInstanceHeartbeat(context.Background(), redisClient)
		defer heartbeatCancel()
		defer support.CloseRedisClient()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootstrap.Setup(ctx)

	return server.OpenRoutes(port)
}

// logLevel keeps debug logging out of production runs.
func logLevel() log.Level {
	if config.InProductionMode {
		return log.InfoLevel
	}
	return log.DebugLevel
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
