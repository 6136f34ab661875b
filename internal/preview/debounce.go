package preview

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

// Debouncer coalesces bursts of change notifications into single rebuild
// signals:
//   - a signal fires once no request arrived for the quiet window
//   - a burst cannot postpone the signal beyond the max delay
//
// Trigger may be called from any goroutine; Run must be called once.
type Debouncer struct {
	quiet    time.Duration
	maxDelay time.Duration

	requests  chan struct{}
	out       chan struct{}
	readyOnce sync.Once
	ready     chan struct{}
}

// NewDebouncer returns a debouncer. maxDelay defaults to ten quiet windows.
func NewDebouncer(quiet, maxDelay time.Duration) (*Debouncer, error) {
	if quiet <= 0 {
		return nil, errors.ValidationError("quiet window must be > 0").Build()
	}
	if maxDelay <= 0 {
		maxDelay = 10 * quiet
	}
	if maxDelay < quiet {
		return nil, errors.ValidationError("max delay must not be shorter than the quiet window").Build()
	}
	return &Debouncer{
		quiet:    quiet,
		maxDelay: maxDelay,
		requests: make(chan struct{}, 64),
		out:      make(chan struct{}, 1),
		ready:    make(chan struct{}),
	}, nil
}

// Trigger records a change. It never blocks; a full request buffer already
// guarantees a pending signal.
func (d *Debouncer) Trigger() {
	select {
	case d.requests <- struct{}{}:
	default:
	}
}

// C delivers rebuild signals. At most one signal is buffered.
func (d *Debouncer) C() <-chan struct{} {
	return d.out
}

// Ready is closed once Run has started.
func (d *Debouncer) Ready() <-chan struct{} {
	return d.ready
}

// Run processes requests until ctx is done.
func (d *Debouncer) Run(ctx context.Context) error {
	d.readyOnce.Do(func() { close(d.ready) })

	quietTimer := stoppedTimer()
	maxTimer := stoppedTimer()
	var (
		quietC  <-chan time.Time
		maxC    <-chan time.Time
		pending bool
	)

	emit := func() {
		pending = false
		quietC, maxC = nil, nil
		quietTimer.Stop()
		maxTimer.Stop()
		select {
		case d.out <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			quietTimer.Stop()
			maxTimer.Stop()
			return nil
		case <-d.requests:
			resetTimer(quietTimer, d.quiet)
			quietC = quietTimer.C
			if !pending {
				pending = true
				resetTimer(maxTimer, d.maxDelay)
				maxC = maxTimer.C
			}
		case <-quietC:
			emit()
		case <-maxC:
			emit()
		}
	}
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
