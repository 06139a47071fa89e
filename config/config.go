package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend BackendConfig
	Poll    PollConfig
	HTTP    HTTPConfig
	Cache   CacheConfig
	DBPath  string
	LogPath string
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollConfig holds the cadence for each polled resource. These map directly
// to perceived "live" latency and backend load, so they are always read from
// configuration, never hardcoded at call sites.
type PollConfig struct {
	Dashboard time.Duration `yaml:"dashboard"` // status, properties, tickets, users
	Sensors   time.Duration `yaml:"sensors"`   // live-sensor view
}

type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	PruneCron string `yaml:"prune_cron"`
}

// fileConfig mirrors Config for the optional YAML override file.
type fileConfig struct {
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	DBPath  string        `yaml:"db_path"`
	LogPath string        `yaml:"log_path"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: getEnv("PROPSENSE_API_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("PROPSENSE_API_TIMEOUT", 15*time.Second),
		},
		Poll: PollConfig{
			Dashboard: getEnvDuration("PROPSENSE_POLL_DASHBOARD", 5*time.Second),
			Sensors:   getEnvDuration("PROPSENSE_POLL_SENSORS", 8*time.Second),
		},
		HTTP: HTTPConfig{
			ListenAddr: getEnv("PROPSENSE_LISTEN_ADDR", ":8090"),
		},
		Cache: CacheConfig{
			Enabled:   getEnv("PROPSENSE_CACHE", "true") == "true",
			PruneCron: getEnv("PROPSENSE_PRUNE_CRON", "@daily"),
		},
		DBPath:  getEnv("PROPSENSE_DB_PATH", "propsense.db"),
		LogPath: getEnv("PROPSENSE_LOG_PATH", "monitor.log"),
	}

	if err := cfg.loadFile(getEnv("PROPSENSE_CONFIG", "config.yaml")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile applies YAML overrides on top of the env-derived defaults.
// A missing file is not an error.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Backend.BaseURL != "" {
		c.Backend.BaseURL = fc.Backend.BaseURL
	}
	if fc.Backend.Timeout > 0 {
		c.Backend.Timeout = fc.Backend.Timeout
	}
	if fc.Poll.Dashboard > 0 {
		c.Poll.Dashboard = fc.Poll.Dashboard
	}
	if fc.Poll.Sensors > 0 {
		c.Poll.Sensors = fc.Poll.Sensors
	}
	if fc.HTTP.ListenAddr != "" {
		c.HTTP.ListenAddr = fc.HTTP.ListenAddr
	}
	if fc.Cache.PruneCron != "" {
		c.Cache.PruneCron = fc.Cache.PruneCron
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.LogPath != "" {
		c.LogPath = fc.LogPath
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
