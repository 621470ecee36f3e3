package candidate

import (
	"time"

	"loker/internal/domain/job"
	"loker/internal/domain/location"
	"loker/internal/domain/quota"

	"github.com/google/uuid"
)

const MaxSkills = 10

type SavedJob struct {
	JobID   uuid.UUID `json:"job_id"`
	SavedAt time.Time `json:"saved_at"`
}

type Profile struct {
	ID                  uuid.UUID
	FullName            string
	SkillIDs            []string
	Location            *location.Ref
	WorkTypePreferences []job.WorkType
	MinExpectedSalary   *int64
	IndustryIDs         []string
	Tier                quota.Tier
	SavedJobs           []SavedJob
}

func (p Profile) HasSaved(jobID uuid.UUID) bool {
	for _, s := range p.SavedJobs {
		if s.JobID == jobID {
			return true
		}
	}
	return false
}

func (p Profile) CanSaveMore() bool {
	return quota.CanSave(p.Tier, len(p.SavedJobs))
}
