package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; shared by the package tests.
type testRecorder struct {
	mu        sync.Mutex
	durations map[string]int
	outcomes  map[string]map[Outcome]int
	clients   int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{durations: map[string]int{}, outcomes: map[string]map[Outcome]int{}}
}

func (t *testRecorder) ObserveRenderDuration(writer string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.durations[writer]++
}

func (t *testRecorder) IncRenderOutcome(writer string, outcome Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.outcomes[writer]
	if !ok {
		m = map[Outcome]int{}
		t.outcomes[writer] = m
	}
	m[outcome]++
}

func (t *testRecorder) ObserveDocumentSize(string, int) {}

func (t *testRecorder) SetPreviewClients(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients = n
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
