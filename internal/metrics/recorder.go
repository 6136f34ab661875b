package metrics

import "time"

// Outcome labels the result of one render.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for rendering. Implementations may
// forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	ObserveRenderDuration(writer string, d time.Duration)
	IncRenderOutcome(writer string, outcome Outcome)
	ObserveDocumentSize(writer string, bytes int)
	SetPreviewClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncRenderOutcome(string, Outcome)            {}
func (NoopRecorder) ObserveDocumentSize(string, int)             {}
func (NoopRecorder) SetPreviewClients(int)                       {}
