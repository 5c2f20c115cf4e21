// Package plugins pulls in the built-in artifact sinks and metric recorders
// so that importing the app registers them with the factories.
package plugins

import (
	_ "github.com/ozstats/labourpipe/infra/artifact"
	_ "github.com/ozstats/labourpipe/infra/metrics"
)
