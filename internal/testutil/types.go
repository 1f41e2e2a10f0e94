// Package testutil provides shared fixtures for container tests.
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greedi-dev/greedi"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// TestService is a basic service with a unique identity, used to check
// singleton identity and transient freshness.
type TestService struct {
	ID        string
	CreatedAt time.Time
	Data      string
}

// NewTestService creates a new test service
func NewTestService() *TestService {
	return &TestService{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Data:      "test",
	}
}

// TestLogger is a test logger interface
type TestLogger interface {
	Log(msg string)
	Logs() []string
}

// TestLoggerImpl implements TestLogger
type TestLoggerImpl struct {
	ID   string
	logs []string
	mu   sync.Mutex
}

func NewTestLogger() TestLogger {
	return &TestLoggerImpl{ID: uuid.NewString()}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.logs))
	copy(result, l.logs)
	return result
}

// TestDatabase is a test database interface
type TestDatabase interface {
	Query(sql string) string
}

// TestDatabaseImpl implements TestDatabase
type TestDatabaseImpl struct {
	Name string
}

func NewTestDatabase() TestDatabase {
	return &TestDatabaseImpl{Name: "testdb"}
}

func NewTestDatabaseNamed(name string) TestDatabase {
	return &TestDatabaseImpl{Name: name}
}

func (d *TestDatabaseImpl) Query(sql string) string {
	return fmt.Sprintf("%s: %s", d.Name, sql)
}

// TestCache is a cache used as the optional collaborator in greedy
// selection fixtures.
type TestCache struct {
	ID      string
	entries map[string]string
	mu      sync.RWMutex
}

func NewTestCache() *TestCache {
	return &TestCache{
		ID:      uuid.NewString(),
		entries: make(map[string]string),
	}
}

func (c *TestCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *TestCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// TestWorker exposes a minimal and a fully wired constructor; the
// container should pick the richer one once its collaborators are
// registered.
type TestWorker struct {
	ID     string
	Logger TestLogger
	Cache  *TestCache
	DB     TestDatabase
}

func NewTestWorker(logger TestLogger) *TestWorker {
	return &TestWorker{ID: uuid.NewString(), Logger: logger}
}

func NewTestWorkerWithCache(logger TestLogger, cache *TestCache) *TestWorker {
	return &TestWorker{ID: uuid.NewString(), Logger: logger, Cache: cache}
}

func NewTestWorkerFull(logger TestLogger, cache *TestCache, db TestDatabase) *TestWorker {
	return &TestWorker{ID: uuid.NewString(), Logger: logger, Cache: cache, DB: db}
}

// NewTestWorkerOptional takes the cache as an optional parameter, so it
// stays eligible when no cache is registered.
func NewTestWorkerOptional(logger TestLogger, cache greedi.Optional[*TestCache]) *TestWorker {
	return &TestWorker{ID: uuid.NewString(), Logger: logger, Cache: cache.Get()}
}

// Circular dependency fixtures.
type TestCircularA struct{ B *TestCircularB }
type TestCircularB struct{ A *TestCircularA }

func NewTestCircularA(b *TestCircularB) *TestCircularA { return &TestCircularA{B: b} }
func NewTestCircularB(a *TestCircularA) *TestCircularB { return &TestCircularB{A: a} }

// TestFailing always fails to construct.
type TestFailing struct{}

func NewTestFailing() (*TestFailing, error) {
	return nil, ErrConstructor
}

// TestPanicking always panics during construction.
type TestPanicking struct{}

func NewTestPanicking() *TestPanicking {
	panic("constructor exploded")
}
