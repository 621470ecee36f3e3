package job

import (
	"errors"
	"strings"
	"time"

	"loker/internal/domain/location"

	"github.com/google/uuid"
)

type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeOnsite WorkType = "onsite"
	WorkTypeHybrid WorkType = "hybrid"
)

var (
	ErrInvalidWorkType  = errors.New("invalid work type")
	ErrLocationRequired = errors.New("location required for non-remote job")
)

func ParseWorkType(s string) (WorkType, error) {
	switch WorkType(strings.ToLower(strings.TrimSpace(s))) {
	case WorkTypeRemote:
		return WorkTypeRemote, nil
	case WorkTypeOnsite:
		return WorkTypeOnsite, nil
	case WorkTypeHybrid:
		return WorkTypeHybrid, nil
	default:
		return "", ErrInvalidWorkType
	}
}

type Skill struct {
	ID   string
	Name string
}

type SalaryRange struct {
	Min      int64
	Max      int64
	Currency string
}

type Posting struct {
	ID             uuid.UUID
	OwnerOrgID     uuid.UUID
	OrgName        string
	OrgIndustryIDs []string
	Title          string
	WorkType       WorkType
	Location       *location.Ref
	RequiredSkills []Skill
	Salary         *SalaryRange
	IsActive       bool
	CreatedAt      time.Time
}

func (p Posting) Validate() error {
	if _, err := ParseWorkType(string(p.WorkType)); err != nil {
		return err
	}
	if p.WorkType != WorkTypeRemote && (p.Location == nil || p.Location.IsZero()) {
		return ErrLocationRequired
	}
	return nil
}

func (p Posting) MinSalary() int64 {
	if p.Salary == nil {
		return 0
	}
	return p.Salary.Min
}
