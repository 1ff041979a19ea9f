package config

import (
	"errors"
	"testing"
)

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr bool
	}{
		{name: "memory", cfg: ServerConfig{CacheBackend: "memory"}},
		{name: "memory mixed case", cfg: ServerConfig{CacheBackend: " Memory "}},
		{name: "postgres with dsn", cfg: ServerConfig{CacheBackend: "postgres", PostgresDSN: "postgres://x"}},
		{name: "postgres without dsn", cfg: ServerConfig{CacheBackend: "postgres"}, wantErr: true},
		{name: "unknown backend", cfg: ServerConfig{CacheBackend: "redis"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAppRejectsUnknownBackend(t *testing.T) {
	t.Setenv("LOGS_DIR", "logs")
	t.Setenv("CACHE_BACKEND", "redis")

	_, err := LoadApp()
	if !errors.Is(err, ErrInvalidCacheBackend) {
		t.Fatalf("LoadApp() error = %v, want ErrInvalidCacheBackend", err)
	}
}
