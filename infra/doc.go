// Package infra contains technical adapters such as artifact sinks
// and metrics recorders. These packages should depend only on the
// interfaces defined in the core packages.
package infra
