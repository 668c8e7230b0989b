package utils

import (
	"sync"
	"time"
)

// TimerOutput receives formatted timing lines.
type TimerOutput interface {
	Output(format string, args ...interface{})
}

// LoggerOutput adapts Logger to TimerOutput.
type LoggerOutput struct {
	Logger Logger
}

// Output implements TimerOutput using Logger.Info.
func (o *LoggerOutput) Output(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Info(format, args...)
	}
}

// Phase is one timed section of an ingestion run.
type Phase struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	completed bool
}

// PhaseTimer stops a single phase, typically via defer.
type PhaseTimer struct {
	timer     *Timer
	phaseName string
}

// Stop stops the phase timer and records the duration.
// Only the first call has effect.
func (pt *PhaseTimer) Stop() time.Duration {
	return pt.timer.StopPhase(pt.phaseName)
}

// Timer records named phases in start order.
type Timer struct {
	mu         sync.RWMutex
	name       string
	startTime  time.Time
	phases     map[string]*Phase
	phaseOrder []string
	output     TimerOutput
	clock      Clock
}

// TimerOption configures a Timer instance.
type TimerOption func(*Timer)

// WithOutput sets the output strategy for the timer.
func WithOutput(output TimerOutput) TimerOption {
	return func(t *Timer) {
		t.output = output
	}
}

// WithLogger sets a Logger as the output strategy.
func WithLogger(logger Logger) TimerOption {
	return func(t *Timer) {
		if logger != nil {
			t.output = &LoggerOutput{Logger: logger}
		}
	}
}

// WithClock sets a custom clock.
func WithClock(clock Clock) TimerOption {
	return func(t *Timer) {
		t.clock = clock
	}
}

// NewTimer creates a new Timer with the given name and options.
func NewTimer(name string, opts ...TimerOption) *Timer {
	t := &Timer{
		name:   name,
		phases: make(map[string]*Phase),
		clock:  NewRealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.startTime = t.clock.Now()
	return t
}

// Start starts timing a new phase. Restarting a name replaces the old phase.
func (t *Timer) Start(phaseName string) *PhaseTimer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.phases[phaseName]; !exists {
		t.phaseOrder = append(t.phaseOrder, phaseName)
	}
	t.phases[phaseName] = &Phase{
		Name:      phaseName,
		StartTime: t.clock.Now(),
	}
	return &PhaseTimer{timer: t, phaseName: phaseName}
}

// StopPhase stops timing a phase and returns its duration.
func (t *Timer) StopPhase(phaseName string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	phase, ok := t.phases[phaseName]
	if !ok {
		return 0
	}
	if phase.completed {
		return phase.Duration
	}
	phase.Duration = t.clock.Since(phase.StartTime)
	phase.completed = true
	return phase.Duration
}

// Duration returns the recorded duration of a phase.
func (t *Timer) Duration(phaseName string) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if phase, ok := t.phases[phaseName]; ok {
		return phase.Duration
	}
	return 0
}

// TotalDuration returns the time since the timer was created.
func (t *Timer) TotalDuration() time.Duration {
	return t.clock.Since(t.startTime)
}

// Phases returns copies of all phases in start order.
func (t *Timer) Phases() []Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()

	phases := make([]Phase, 0, len(t.phaseOrder))
	for _, name := range t.phaseOrder {
		phases = append(phases, *t.phases[name])
	}
	return phases
}

// PrintSummary writes one line per phase to the configured output.
func (t *Timer) PrintSummary() {
	if t.output == nil {
		return
	}
	t.output.Output("=== %s timing ===", t.name)
	for i, phase := range t.Phases() {
		t.output.Output("  %d. %s: %v", i+1, phase.Name, phase.Duration)
	}
	t.output.Output("  total: %v", t.TotalDuration())
}

// ToMap returns phase durations in milliseconds keyed by phase name.
func (t *Timer) ToMap() map[string]int64 {
	result := make(map[string]int64)
	for _, phase := range t.Phases() {
		result[phase.Name] = phase.Duration.Milliseconds()
	}
	return result
}
