package pipeline

import (
	"errors"
	"fmt"

	"github.com/ozstats/labourpipe/core/model"
)

// UnknownRegionError reports a source row whose region code or name does not
// map to one of the eight canonical jurisdictions. Recoverable: the row is
// discarded and the run continues.
type UnknownRegionError struct {
	Raw string
	Row int
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("row %d: unknown region %q", e.Row, e.Raw)
}

// DuplicateRegionError reports two surviving rows claiming the same region
// for the same quarter. Fatal: the run aborts without emitting artifacts.
type DuplicateRegionError struct {
	Region  model.Region
	Quarter model.Quarter
	Rows    [2]int
}

func (e *DuplicateRegionError) Error() string {
	return fmt.Sprintf("duplicate region %s for %s (rows %d and %d)", e.Region, e.Quarter, e.Rows[0], e.Rows[1])
}

// MissingHistoryError reports a region with no prior-year observation to
// compute annual growth against. Recoverable: the record keeps a null growth.
type MissingHistoryError struct {
	Region model.Region
	Wanted model.Quarter
}

func (e *MissingHistoryError) Error() string {
	return fmt.Sprintf("region %s: no observation for %s, growth unavailable", e.Region, e.Wanted)
}

// TemporalMisalignmentError reports observations drawn from different
// reference quarters, either inside one table or across the merge inputs.
// Fatal: joining across quarters would produce silently wrong rows.
type TemporalMisalignmentError struct {
	Table string
	Want  model.Quarter
	Got   model.Quarter
}

func (e *TemporalMisalignmentError) Error() string {
	return fmt.Sprintf("temporal misalignment in %s: %s vs %s", e.Table, e.Want, e.Got)
}

// Fatal reports whether err (or anything it wraps) must abort the run.
func Fatal(err error) bool {
	var dup *DuplicateRegionError
	var mis *TemporalMisalignmentError
	return errors.As(err, &dup) || errors.As(err, &mis)
}
