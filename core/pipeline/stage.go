package pipeline

import (
	"fmt"
	"sync"
	"time"
)

// Stage identifies a phase of a pipeline run.
type Stage int

const (
	StageIdle Stage = iota
	StageLoading
	StageValidating
	StageTransforming
	StageWriting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLoading:
		return "loading"
	case StageValidating:
		return "validating"
	case StageTransforming:
		return "transforming"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// MarshalText renders the stage name, for reports and logs.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(text []byte) error {
	for st := StageIdle; st <= StageFailed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// Terminal reports whether no further transition is allowed from s.
func (s Stage) Terminal() bool { return s == StageDone || s == StageFailed }

// next is the single legal forward step for each non-terminal stage.
var next = map[Stage]Stage{
	StageIdle:         StageLoading,
	StageLoading:      StageValidating,
	StageValidating:   StageTransforming,
	StageTransforming: StageWriting,
	StageWriting:      StageDone,
}

// Transition records one stage change of a run.
type Transition struct {
	From Stage
	To   Stage
	At   time.Time
}

// Tracker enforces the run lifecycle: stages advance strictly forward, and
// any non-terminal stage may drop to Failed. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	stage  Stage
	notify func(Transition)
}

// NewTracker returns a tracker in the idle stage. notify, if non-nil, is
// called synchronously after every accepted transition.
func NewTracker(notify func(Transition)) *Tracker {
	return &Tracker{stage: StageIdle, notify: notify}
}

// Stage returns the current stage.
func (t *Tracker) Stage() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stage
}

// To moves the run to stage s, rejecting skips, rollbacks and transitions
// out of a terminal stage.
func (t *Tracker) To(s Stage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stage.Terminal() {
		return fmt.Errorf("run already %s, cannot enter %s", t.stage, s)
	}
	if s != StageFailed && next[t.stage] != s {
		return fmt.Errorf("illegal transition %s -> %s", t.stage, s)
	}
	tr := Transition{From: t.stage, To: s, At: time.Now()}
	t.stage = s
	if t.notify != nil {
		t.notify(tr)
	}
	return nil
}

// Fail drops the run to Failed from any non-terminal stage.
func (t *Tracker) Fail() error { return t.To(StageFailed) }
