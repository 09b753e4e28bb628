package testutil

import (
	"context"
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/structures"
	"sort"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level with type t.
func (m *MockLogger) Count(level string, t providers.TypeEnum) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level && l.Type == t {
			n++
		}
	}
	return n
}

// Messages returns the formatted entries logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, l := range m.Logs {
		if l.Level == level {
			out = append(out, fmt.Sprintf(l.Format, l.Args...))
		}
	}
	return out
}

// MockCache implements providers.CacheProviderInterface without expiry.
type MockCache struct {
	mu   sync.Mutex
	data map[models.Collection][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[models.Collection][]byte)}
}

func (m *MockCache) Document(key models.Collection) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MockCache) Remember(key models.Collection, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}

func (m *MockCache) Forget(key models.Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu              sync.Mutex
	Firings         map[string]int
	PublishOK       map[string]int
	PublishFailed   map[string]int
	Saves           map[string]int
	ActiveSchedules int
	Accounts        map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Firings:       make(map[string]int),
		PublishOK:     make(map[string]int),
		PublishFailed: make(map[string]int),
		Saves:         make(map[string]int),
		Accounts:      make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string)                            {}
func (m *MockMetrics) IncCacheMisses(_ string)                          {}

func (m *MockMetrics) ObservePersistenceDuration(collection string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves[collection]++
}

func (m *MockMetrics) IncFirings(platform string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Firings[platform]++
}

func (m *MockMetrics) IncPublishResult(platform string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.PublishOK[platform]++
	} else {
		m.PublishFailed[platform]++
	}
}

func (m *MockMetrics) ObservePublishDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) SetActiveSchedules(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveSchedules = count
}

func (m *MockMetrics) SetAccounts(platform string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[platform] = count
}

func (m *MockMetrics) FiringCount(platform string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Firings[platform]
}

func (m *MockMetrics) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ActiveSchedules
}

// MockCompressor is an identity compressor with switchable failures.
type MockCompressor struct {
	CompressErr   error
	DecompressErr error
	Closed        bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressErr != nil {
		return nil, m.CompressErr
	}
	return append([]byte(nil), val...), nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressErr != nil {
		return nil, m.DecompressErr
	}
	return append([]byte(nil), val...), nil
}

func (m *MockCompressor) Close() { m.Closed = true }

type PublishCall struct {
	Platform models.Platform
	Account  *models.Account
	Payload  models.Payload
}

// MockPublisher records every call. PublishFn overrides the default success.
type MockPublisher struct {
	mu        sync.Mutex
	Calls     []PublishCall
	PublishFn func(ctx context.Context, platform models.Platform, account *models.Account, payload models.Payload) (string, error)
}

func (m *MockPublisher) Publish(ctx context.Context, platform models.Platform, account *models.Account, payload models.Payload) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, PublishCall{Platform: platform, Account: account, Payload: payload})
	n := len(m.Calls)
	fn := m.PublishFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, platform, account, payload)
	}
	return fmt.Sprintf("ref-%d", n), nil
}

func (m *MockPublisher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// FakeClock drives FakeCron instances on a virtual timeline using the real
// gron schedules, so TwiceDaily at 10:00 fires exactly at 10:00 UTC.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	crons []*FakeCron
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewCron() *FakeCron {
	c.mu.Lock()
	defer c.mu.Unlock()
	cron := &FakeCron{clock: c}
	c.crons = append(c.crons, cron)
	return cron
}

// Pending counts entries on running crons.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, cron := range c.crons {
		if cron.running {
			n += len(cron.entries)
		}
	}
	return n
}

// Advance moves the clock forward and runs every job that comes due, in time
// order, on the calling goroutine. It returns the number of jobs run.
func (c *FakeClock) Advance(d time.Duration) int {
	c.mu.Lock()
	target := c.now.Add(d)
	fired := 0
	for {
		due := c.nextDue(target)
		if due == nil {
			break
		}
		c.now = due.next
		due.next = due.schedule.Next(due.next.Add(time.Nanosecond))
		job := due.job
		c.mu.Unlock()
		job()
		fired++
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
	return fired
}

func (c *FakeClock) nextDue(target time.Time) *fakeEntry {
	var due []*fakeEntry
	for _, cron := range c.crons {
		if !cron.running {
			continue
		}
		for _, e := range cron.entries {
			if !e.next.After(target) {
				due = append(due, e)
			}
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].next.Before(due[j].next) })
	return due[0]
}

type fakeEntry struct {
	schedule gron.Schedule
	job      func()
	next     time.Time
}

// FakeCron satisfies the scheduler's cron interface.
type FakeCron struct {
	clock   *FakeClock
	entries []*fakeEntry
	running bool
	Stopped bool
}

func (f *FakeCron) AddFunc(s gron.Schedule, j func()) {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	e := &fakeEntry{schedule: s, job: j}
	if f.running {
		e.next = s.Next(f.clock.now)
	}
	f.entries = append(f.entries, e)
}

func (f *FakeCron) Start() {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	if f.running || f.Stopped {
		return
	}
	f.running = true
	for _, e := range f.entries {
		e.next = e.schedule.Next(f.clock.now)
	}
}

func (f *FakeCron) Stop() {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	f.running = false
	f.Stopped = true
}

func (f *FakeCron) Entries() int {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	return len(f.entries)
}

// TestConfig returns a valid config rooted at dir.
func TestConfig(dir string) *structures.Config {
	return &structures.Config{
		AppName: "MoneyPrint",
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Storage: structures.StorageConfig{
			Dir:      dir,
			FileMode: 0644,
		},
		Logger: structures.LoggerConfig{
			Level: "debug",
			Mode:  0644,
			Dir:   dir,
		},
		Publisher: structures.PublisherConfig{
			Timeout: time.Second,
		},
		Scheduler: structures.SchedulerConfig{
			TwiceDaily:  []string{"10:00", "16:00"},
			ThriceDaily: []string{"08:00", "12:00", "18:00"},
		},
		Content: structures.ContentConfig{
			PostTemplate:             "Today in {{.Topic}}: fresh thoughts ({{.Date}})",
			VideoTitleTemplate:       "{{.Topic}} explained",
			VideoDescriptionTemplate: "Everything about {{.Topic}} by {{.Nickname}}",
			PitchTemplate:            "Recommended: {{.Link}} for {{.Topic}}",
		},
	}
}
