package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	LogsDir     string `env:"LOGS_DIR,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// CacheBackend selects the result cache: "memory" or "postgres".
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"memory"`
	PostgresDSN  string `env:"POSTGRES_DSN"`

	HandLoadBatch      int `env:"HAND_LOAD_BATCH" envDefault:"10"`
	OverallConcurrency int `env:"OVERALL_CONCURRENCY" envDefault:"4"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
