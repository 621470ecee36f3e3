package usecase

import (
	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/domain/matching"
)

// scoringFilters fills every filter field the caller left unset from the
// candidate's stored preferences. A work-type set that is empty in both is
// scored as preferring remote.
func scoringFilters(explicit matching.Filters, c candidate.Profile) matching.Filters {
	f := explicit
	if f.Location == nil || f.Location.IsZero() {
		f.Location = c.Location
	}
	if len(f.WorkTypes) == 0 {
		f.WorkTypes = c.WorkTypePreferences
	}
	if f.MinSalary == nil {
		f.MinSalary = c.MinExpectedSalary
	}
	if len(f.IndustryIDs) == 0 {
		f.IndustryIDs = c.IndustryIDs
	}
	if len(f.WorkTypes) == 0 {
		f.WorkTypes = []job.WorkType{job.WorkTypeRemote}
	}
	return f
}
