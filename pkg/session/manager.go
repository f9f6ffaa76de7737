package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// ErrSessionExists is returned by Start when the ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store  ports.RunStore
	loader ports.MachineLoader

	mu      sync.Mutex            // Guards locks and engines
	locks   map[string]*lockEntry // Active locks by session ID
	engines map[string]*turing.Engine

	engineOpts []turing.Option
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngineOptions passes options to every engine the manager builds,
// such as hooks or a step limit.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// NewManager creates a session manager persisting to store and resolving
// machine names through loader.
func NewManager(store ports.RunStore, loader ports.MachineLoader, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		loader:  loader,
		locks:   make(map[string]*lockEntry),
		engines: make(map[string]*turing.Engine),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates a session for machine over cells. An empty id is replaced by
// a generated one. A nil cells slice uses the machine's default tape.
func (m *Manager) Start(ctx context.Context, id, machine string, cells []domain.Cell) (*domain.Run, error) {
	if id == "" {
		id = uuid.NewString()
	}
	eng, err := m.engine(ctx, machine)
	if err != nil {
		return nil, err
	}

	var run *domain.Run
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err == nil {
			return fmt.Errorf("%w: %s", ErrSessionExists, id)
		} else if !errors.Is(err, domain.ErrRunNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		run = eng.Start(cells).Record(id)
		run.CreatedAt = m.now()
		run.UpdatedAt = run.CreatedAt
		if err := m.store.Save(ctx, run); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session started", "session_id", id, "machine", machine)
	return run, nil
}

// Step applies up to n steps (n <= 0 runs to completion) and persists the
// result. A halted or failed session is returned unchanged. A machine failure
// is recorded on the run rather than returned as an error.
func (m *Manager) Step(ctx context.Context, id string, n int) (*domain.Run, error) {
	var run *domain.Run
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		prev, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if prev.Status.Terminal() {
			run = prev
			return nil
		}

		eng, err := m.engine(ctx, prev.Machine)
		if err != nil {
			return err
		}
		machine, err := eng.Resume(prev)
		if err != nil {
			return err
		}

		// Context errors leave the machine resumable; save the progress made.
		_, stepErr := machine.Advance(ctx, n)

		run = machine.Record(id)
		run.CreatedAt = prev.CreatedAt
		run.UpdatedAt = m.now()
		if err := m.store.Save(context.WithoutCancel(ctx), run); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		if stepErr != nil && !run.Status.Terminal() {
			return stepErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Load retrieves an existing session.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Run, error) {
	var run *domain.Run
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, id)
		return err
	})
	return run, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying run store.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// engine returns a cached engine for the named machine.
func (m *Manager) engine(ctx context.Context, name string) (*turing.Engine, error) {
	m.mu.Lock()
	eng, ok := m.engines[name]
	m.mu.Unlock()
	if ok {
		return eng, nil
	}

	eng, err := turing.Load(ctx, m.loader, name, m.engineOpts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.engines[name]; ok {
		return cached, nil
	}
	m.engines[name] = eng
	return eng, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}
