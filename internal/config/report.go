package config

import "github.com/caarlos0/env/v11"

// ReportConfig drives the one-shot stats-report binary.
type ReportConfig struct {
	LogsDir       string   `env:"LOGS_DIR" envDefault:"logs"`
	Output        string   `env:"REPORT_OUTPUT"`
	Tournaments   []string `env:"REPORT_TOURNAMENTS" envSeparator:","`
	HandLoadBatch int      `env:"HAND_LOAD_BATCH" envDefault:"10"`
	Concurrency   int      `env:"OVERALL_CONCURRENCY" envDefault:"4"`
}

func LoadReport() (ReportConfig, error) {
	var cfg ReportConfig
	err := env.Parse(&cfg)
	return cfg, err
}
