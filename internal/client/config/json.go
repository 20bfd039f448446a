package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filekeeper/internal/flagx"
	"github.com/dmitrijs2005/filekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value.
type JsonConfig struct {
	RemoteAddr          *string         `json:"remote_addr"`
	RemotePassword      *string         `json:"remote_password"`
	RemoteDB            *int            `json:"remote_db"`
	ConnectTimeout      *timex.Duration `json:"connect_timeout"`
	DataDir             *string         `json:"data_dir"`
	MaxMapSize          *int            `json:"max_map_size"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without the flag nothing happens. Read or unmarshal errors
// panic; the caller decides whether to recover.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteAddr != nil {
		cfg.RemoteAddr = *jc.RemoteAddr
	}
	if jc.RemotePassword != nil {
		cfg.RemotePassword = *jc.RemotePassword
	}
	if jc.RemoteDB != nil {
		cfg.RemoteDB = *jc.RemoteDB
	}
	if jc.ConnectTimeout != nil {
		cfg.ConnectTimeout = jc.ConnectTimeout.Duration
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.MaxMapSize != nil {
		cfg.MaxMapSize = *jc.MaxMapSize
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
