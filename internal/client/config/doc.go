// Package config loads runtime configuration for the filekeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   host:port of the remote hash store
//	-d string   data directory for record stores and the state database
//	-i int      online status check interval (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "remote_addr": "127.0.0.1:6379",
//	  "remote_password": "",
//	  "remote_db": 0,
//	  "connect_timeout": "1.5s",
//	  "data_dir": "./data",
//	  "max_map_size": 10485760,
//	  "online_check_interval": "3s",
//	  "log_level": "info"
//	}
package config
