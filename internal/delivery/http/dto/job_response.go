package dto

import (
	"time"

	"loker/internal/domain/job"
	"loker/internal/domain/location"

	"github.com/google/uuid"
)

type OrganizationSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SkillResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SalaryResponse struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

type JobResponse struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Organization   OrganizationSummary `json:"organization"`
	WorkType       string              `json:"work_type"`
	Location       *location.Ref       `json:"location,omitempty"`
	RequiredSkills []SkillResponse     `json:"required_skills"`
	Salary         *SalaryResponse     `json:"salary,omitempty"`
	IsActive       bool                `json:"is_active"`
	CreatedAt      time.Time           `json:"created_at"`
}

func NewJobResponse(p job.Posting) JobResponse {
	skills := make([]SkillResponse, 0, len(p.RequiredSkills))
	for _, s := range p.RequiredSkills {
		skills = append(skills, SkillResponse{ID: s.ID, Name: s.Name})
	}
	res := JobResponse{
		ID:             p.ID,
		Title:          p.Title,
		Organization:   OrganizationSummary{ID: p.OwnerOrgID, Name: p.OrgName},
		WorkType:       string(p.WorkType),
		Location:       p.Location,
		RequiredSkills: skills,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
	}
	if p.Salary != nil {
		res.Salary = &SalaryResponse{Min: p.Salary.Min, Max: p.Salary.Max, Currency: p.Salary.Currency}
	}
	return res
}
