// Package events defines the run progress events emitted on the event bus.
//
// Available event types:
//   - StageEvent: pipeline stage transition
//   - WarningEvent: recoverable data quality finding
//   - ArtifactEvent: output artifact committed to disk
package events
