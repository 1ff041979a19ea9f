package config

import (
	"errors"
	"strings"
)

var ErrInvalidCacheBackend = errors.New("config: CACHE_BACKEND must be memory or postgres")

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	if err := serverCfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c ServerConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.CacheBackend)) {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("config: POSTGRES_DSN is required when CACHE_BACKEND=postgres")
		}
	default:
		return ErrInvalidCacheBackend
	}
	return nil
}
