package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/logging"
)

// Store kinds accepted by --store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Options carries the persistent flags shared by every command.
type Options struct {
	Dir       string // Machine directory; empty serves only the built-in machines
	LogLevel  string
	LogFormat string
	LogFile   string // Optional JSON log copy
	Store     string // memory, file or redis
	StorePath string // File store directory
	StoreKey  string // Base64 AES-256 key; empty stores runs in the clear
	RedisAddr string
	MaxSteps  int
}

// Logger builds the application logger from the log flags.
func (o Options) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	if o.LogFile == "" {
		return logging.New(level, o.LogFormat), nil
	}
	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewTee(os.Stderr, f, level, o.LogFormat), nil
}
