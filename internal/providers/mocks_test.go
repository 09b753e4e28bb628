package providers

import (
	"sync"
	"time"
)

// local mocks to avoid import cycle with testutil

type testLogger struct {
	mu     sync.Mutex
	lines  []TypeEnum
	levels []string
}

func (m *testLogger) rec(level string, t TypeEnum) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, t)
	m.levels = append(m.levels, level)
}

func (m *testLogger) Errorf(t TypeEnum, _ string, _ ...interface{}) { m.rec("error", t) }
func (m *testLogger) Warnf(t TypeEnum, _ string, _ ...interface{})  { m.rec("warn", t) }
func (m *testLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) { m.rec("debug", t) }
func (m *testLogger) Infof(t TypeEnum, _ string, _ ...interface{})  { m.rec("info", t) }
func (m *testLogger) Fatalf(t TypeEnum, _ string, _ ...interface{}) { m.rec("fatal", t) }
func (m *testLogger) Close()                                        {}

type testMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            map[string]int
	misses          map[string]int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *testMetrics) IncCacheHits(collection string) {
	if m.hits == nil {
		m.hits = map[string]int{}
	}
	m.hits[collection]++
}
func (m *testMetrics) IncCacheMisses(collection string) {
	if m.misses == nil {
		m.misses = map[string]int{}
	}
	m.misses[collection]++
}
func (m *testMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (m *testMetrics) IncFirings(_ string)                                  {}
func (m *testMetrics) IncPublishResult(_ string, _ bool)                    {}
func (m *testMetrics) ObservePublishDuration(_ string, _ time.Duration)     {}
func (m *testMetrics) SetActiveSchedules(_ int)                             {}
func (m *testMetrics) SetAccounts(_ string, _ int)                          {}
