package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Checker struct {
		Threads          uint32 `json:"threads"`
		Retries          uint8  `json:"retries"`
		Timeout          uint32 `json:"timeout"` // milliseconds
		IpLookup         string `json:"ip_lookup"`
		UseHttpsForSocks bool   `json:"use_https_for_socks"`

		RecheckEnabled bool  `json:"recheck_enabled"`
		RecheckTimer   Timer `json:"recheck_timer"`
	} `json:"checker"`

	StripeProbe struct {
		URL     string `json:"url"`
		Timeout uint32 `json:"timeout"` // milliseconds
	} `json:"stripe_probe"`

	Cache struct {
		ResultTTLMinutes uint32 `json:"result_ttl_minutes"`
	} `json:"cache"`

	Classifier struct {
		RotatingKeywords []string `json:"rotating_keywords"`
	} `json:"classifier"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex

	InProductionMode bool
)

func init() {
	configValue.Store(Config{})
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			if err = os.MkdirAll("data", os.ModePerm); err != nil {
				log.Error("Error creating directory for settings file:", "error", err)
				return
			}

			if err = os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm); err != nil {
				log.Error("Error writing default settings file:", "error", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", "error", err)
			return
		}
	}

	var newConfig Config
	if err = json.Unmarshal(data, &newConfig); err != nil {
		log.Error("Error unmarshalling settings file:", "error", err)
		return
	}

	applyConfigUpdate(newConfig, false)
	log.Debug("Settings file loaded successfully")
}

func SetConfig(newConfig Config) {
	applyConfigUpdate(newConfig, true)
	log.Debug("Configuration updated and written to file")
}

func applyConfigUpdate(newConfig Config, persistToFile bool) {
	configMu.Lock()
	defer configMu.Unlock()

	configValue.Store(newConfig)
	refreshIntervals()

	if !persistToFile {
		return
	}

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		log.Error("Error marshalling new configuration:", "error", err)
		return
	}
	if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
		log.Error("Error writing new configuration to file:", "error", err)
	}
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetProductionMode(productionMode bool) {
	InProductionMode = productionMode
}
