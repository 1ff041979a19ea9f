package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"poker-replay/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
)

// Init configures the global zerolog logger from cfg. When cfg.File is set,
// output is mirrored into a file rotated at cfg.MaxMB.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	if strings.TrimSpace(cfg.File) != "" {
		fw, err := newRotatingWriter(cfg.File, cfg.MaxMB)
		if err == nil {
			out = io.MultiWriter(os.Stdout, fw)
		}
	}
	setWriter(out)

	var logOut io.Writer = out
	if cfg.Pretty {
		logOut = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(logOut).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer returns the raw destination used for structured logs, for
// components that log through slog rather than zerolog.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	writer = w
	writerMu.Unlock()
}
