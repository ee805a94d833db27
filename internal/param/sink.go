package param

import "sync"

type WarningKind int

const (
	WarnCycle WarningKind = iota
	WarnInvalidNumber
	WarnInvalidDate
	WarnUnsupported
)

func (k WarningKind) String() string {
	switch k {
	case WarnCycle:
		return "cycle"
	case WarnInvalidNumber:
		return "invalid_number"
	case WarnInvalidDate:
		return "invalid_date"
	default:
		return "unsupported"
	}
}

// Warning describes a value the encoder skipped.
type Warning struct {
	Kind   WarningKind
	Key    string
	Detail string
}

// Sink receives encoder warnings. Warnings never change the emitted pairs
// beyond the skip they describe.
type Sink interface {
	Warn(w Warning)
}

type SinkFunc func(w Warning)

func (f SinkFunc) Warn(w Warning) { f(w) }

type multiSink []Sink

func (m multiSink) Warn(w Warning) {
	for _, s := range m {
		s.Warn(w)
	}
}

// MultiSink fans warnings out to every non-nil sink.
func MultiSink(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Recorder keeps every warning it receives.
type Recorder struct {
	mu       sync.Mutex
	warnings []Warning
}

func (r *Recorder) Warn(w Warning) {
	r.mu.Lock()
	r.warnings = append(r.warnings, w)
	r.mu.Unlock()
}

func (r *Recorder) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}
