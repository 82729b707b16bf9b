package spreadsheet

import "errors"

// Fatal criteria-source conditions. Both mean the sheet cannot drive a run;
// the pipeline treats them the same way as an unreachable spreadsheet and
// substitutes the fallback criteria.
var (
	// ErrNoLocationColumn indicates the sheet has no resolvable location
	// column, i.e. no usable schema.
	ErrNoLocationColumn = errors.New("required column 'Location' not found in the worksheet")

	// ErrNoCriteria indicates the sheet parsed cleanly but yielded zero
	// valid criteria rows.
	ErrNoCriteria = errors.New("no valid search criteria found in the worksheet")
)
