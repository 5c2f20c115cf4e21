package events

import (
	"time"

	"github.com/ozstats/labourpipe/core/pipeline"
)

// StageEvent is published when a run moves to a new pipeline stage.
type StageEvent struct {
	RunID     string
	Component string
	From      pipeline.Stage
	To        pipeline.Stage
	At        time.Time
}

// WarningEvent is published for each recoverable finding.
type WarningEvent struct {
	RunID     string
	Component string
	Warning   pipeline.Warning
}

// ArtifactEvent is published after an output artifact has been committed.
type ArtifactEvent struct {
	RunID   string
	Kind    string
	Path    string
	Records int
}

// Event is the union of the progress event types carried on the bus.
type Event any
