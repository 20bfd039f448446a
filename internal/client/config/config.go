package config

import (
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/store"
)

// Config holds runtime settings for the filekeeper client.
//
// Units: ConnectTimeout and OnlineCheckInterval are time.Duration values;
// MaxMapSize is in bytes.
type Config struct {
	RemoteAddr     string
	RemotePassword string
	RemoteDB       int
	ConnectTimeout time.Duration

	DataDir    string
	MaxMapSize int

	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteAddr = "127.0.0.1:6379"
	c.RemotePassword = ""
	c.RemoteDB = 0
	c.ConnectTimeout = remote.DefaultDialTimeout
	c.DataDir = "./data"
	c.MaxMapSize = store.DefaultMaxMapSize
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
}

// Remote returns the connection settings of the remote store.
func (c *Config) Remote() remote.Config {
	return remote.Config{
		Addr:        c.RemoteAddr,
		Password:    c.RemotePassword,
		DB:          c.RemoteDB,
		DialTimeout: c.ConnectTimeout,
	}
}

// StoreOptions returns the options for per-identity record stores.
func (c *Config) StoreOptions() store.Options {
	return store.Options{MaxMapSize: c.MaxMapSize, OpenTimeout: store.DefaultOpenTimeout}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
