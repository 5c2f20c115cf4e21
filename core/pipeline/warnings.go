package pipeline

import (
	"errors"

	"github.com/ozstats/labourpipe/core/model"
)

// WarningKind classifies a recoverable finding surfaced in the run report.
type WarningKind string

const (
	WarnUnknownRegion  WarningKind = "unknown_region"
	WarnMissingHistory WarningKind = "missing_history"
	WarnJoinMismatch   WarningKind = "join_mismatch"
	WarnMalformedRow   WarningKind = "malformed_row"
	WarnMissingValue   WarningKind = "missing_value"
)

// Warning is one recoverable finding. Fatal conditions never become
// warnings, they abort the run instead.
type Warning struct {
	Kind   WarningKind  `json:"kind"`
	Region model.Region `json:"region,omitempty"`
	Row    int          `json:"row,omitempty"`
	Detail string       `json:"detail"`
}

// AsWarning converts a recoverable pipeline error into its report form.
// Fatal and foreign errors return false.
func AsWarning(err error) (Warning, bool) {
	var unknown *UnknownRegionError
	if errors.As(err, &unknown) {
		return Warning{Kind: WarnUnknownRegion, Row: unknown.Row, Detail: unknown.Error()}, true
	}
	var hist *MissingHistoryError
	if errors.As(err, &hist) {
		return Warning{Kind: WarnMissingHistory, Region: hist.Region, Detail: hist.Error()}, true
	}
	return Warning{}, false
}
