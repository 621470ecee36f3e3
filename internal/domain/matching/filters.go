package matching

import (
	"loker/internal/domain/job"
	"loker/internal/domain/location"
)

// Filters is the per-request override bundle. A nil Location or MinSalary
// means the caller did not set it.
type Filters struct {
	Location    *location.Ref
	WorkTypes   []job.WorkType
	MinSalary   *int64
	IndustryIDs []string
}

func (f Filters) IsEmpty() bool {
	return (f.Location == nil || f.Location.IsZero()) &&
		len(f.WorkTypes) == 0 &&
		f.MinSalary == nil &&
		len(f.IndustryIDs) == 0
}
