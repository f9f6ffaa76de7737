package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
)

// NewLoader returns the machine loader for dir. The built-in machines are
// always available; machines found in dir shadow them by name. Directories
// holding Markdown documents are read through loam, others as YAML/JSON files.
func NewLoader(dir string) (ports.MachineLoader, error) {
	builtin, err := memory.NewLoader(machines.BusyBeaver3(), machines.Copy(), machines.Rule110())
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return builtin, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("machine directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("machine directory: %s is not a directory", dir)
	}

	if hasMarkdown(dir) {
		repo, err := loam.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("error opening markdown repository: %w", err)
		}
		return Chain(repo, builtin), nil
	}
	return Chain(file.NewLoader(dir), builtin), nil
}

// hasMarkdown reports whether dir directly contains a .md file.
func hasMarkdown(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			return true
		}
	}
	return false
}

// Backend is the run store selected by the flags plus, for stores shared
// across processes, a distributed locker on the same connection.
type Backend struct {
	Store  ports.RunStore
	Locker ports.DistributedLocker // nil unless the store is shared
}

// NewBackend builds the run store selected by opts, sealing records with
// AES-GCM when a store key is set. A redis store also yields a locker that
// shares its client.
func NewBackend(opts Options) (*Backend, error) {
	store, err := openStore(opts)
	if err != nil {
		return nil, err
	}

	b := &Backend{Store: store}
	if rs, ok := store.(*redis.Store); ok {
		b.Locker = redis.NewLocker(rs.Client(), "turing:")
	}

	if opts.StoreKey == "" {
		return b, nil
	}
	key, err := base64.StdEncoding.DecodeString(opts.StoreKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store key: %w", err)
	}
	if len(key) != middleware.KeySize {
		return nil, fmt.Errorf("invalid store key: want %d bytes, got %d", middleware.KeySize, len(key))
	}
	b.Store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	return b, nil
}

func openStore(opts Options) (ports.RunStore, error) {
	switch opts.Store {
	case "", StoreFile:
		path := opts.StorePath
		if path == "" {
			path = filepath.Join(".turing", "runs")
		}
		return file.NewStore(path), nil
	case StoreMemory:
		return memory.NewStore(), nil
	case StoreRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("--redis-addr is required for the redis store")
		}
		return redis.New(opts.RedisAddr, "", 0), nil
	default:
		return nil, fmt.Errorf("unknown store %q (supported: memory, file, redis)", opts.Store)
	}
}

// EngineOptions maps shared flags to engine options.
func (o Options) EngineOptions() ([]turing.Option, error) {
	logger, err := o.Logger()
	if err != nil {
		return nil, err
	}
	opts := []turing.Option{turing.WithLogger(logger)}
	if o.MaxSteps > 0 {
		opts = append(opts, turing.WithStepLimit(o.MaxSteps))
	}
	return opts, nil
}
