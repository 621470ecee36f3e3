package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/domain/location"
)

const (
	pointsPerSkill    = 10
	pointsDistrict    = 5
	pointsRegency     = 10
	pointsProvince    = 10
	pointsWorkType    = 10
	pointsSalary      = 10
	pointsIndustry    = 8
	recencyWindowDays = 30
	recentlyPostedDay = 3
)

const (
	ReasonSalary   = "Salary meets your minimum expectation"
	ReasonIndustry = "Company industry matches your interests"
	ReasonRecent   = "Recently posted"
)

type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Calculate scores a posting against a candidate. The score is unclamped;
// use DisplayScore before showing it as a percentage.
func Calculate(p job.Posting, c candidate.Profile, f Filters, now time.Time) Result {
	score := 0
	reasons := make([]string, 0, 6)

	if names := matchedSkills(p.RequiredSkills, c.SkillIDs); len(names) > 0 {
		score += pointsPerSkill * len(names)
		reasons = append(reasons, "Matching skills: "+strings.Join(names, ", "))
	}

	if pts, tiers := locationOverlap(p.Location, f.Location, c.Location); len(tiers) > 0 {
		score += pts
		reasons = append(reasons, "Location match: "+strings.Join(tiers, ", "))
	}

	for _, wt := range f.WorkTypes {
		if wt == p.WorkType {
			score += pointsWorkType
			reasons = append(reasons, fmt.Sprintf("Work type matches: %s", p.WorkType))
			break
		}
	}

	if f.MinSalary != nil {
		if p.MinSalary() >= *f.MinSalary {
			score += pointsSalary
			reasons = append(reasons, ReasonSalary)
		} else {
			score -= pointsSalary
		}
	}

	if len(f.IndustryIDs) > 0 && intersects(p.OrgIndustryIDs, f.IndustryIDs) {
		score += pointsIndustry
		reasons = append(reasons, ReasonIndustry)
	}

	age := ageInDays(p.CreatedAt, now)
	if bonus := recencyWindowDays - age; bonus > 0 {
		score += bonus
	}
	if age < recentlyPostedDay {
		reasons = append(reasons, ReasonRecent)
	}

	return Result{Score: score, Reasons: reasons}
}

// DisplayScore is the single presentation clamp for match percentages. It
// bounds the score to [0, 100], so salary penalties never show as negative.
func DisplayScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func matchedSkills(required []job.Skill, candidateSkills []string) []string {
	if len(required) == 0 || len(candidateSkills) == 0 {
		return nil
	}
	have := make(map[string]struct{}, len(candidateSkills))
	for _, id := range candidateSkills {
		if id == "" {
			continue
		}
		have[id] = struct{}{}
	}

	out := make([]string, 0, len(required))
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		if _, ok := have[s.ID]; !ok {
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		name := s.Name
		if name == "" {
			name = s.ID
		}
		out = append(out, name)
	}
	return out
}

// locationOverlap evaluates district, regency and province independently.
// Each tier uses the filter id, falling back to the candidate's own id.
func locationOverlap(jobLoc, filterLoc, candidateLoc *location.Ref) (int, []string) {
	if jobLoc == nil {
		return 0, nil
	}
	var f, c location.Ref
	if filterLoc != nil {
		f = *filterLoc
	}
	if candidateLoc != nil {
		c = *candidateLoc
	}

	pts := 0
	tiers := make([]string, 0, 3)
	if sameID(jobLoc.DistrictID, pick(f.DistrictID, c.DistrictID)) {
		pts += pointsDistrict
		tiers = append(tiers, "district")
	}
	if sameID(jobLoc.RegencyID, pick(f.RegencyID, c.RegencyID)) {
		pts += pointsRegency
		tiers = append(tiers, "regency")
	}
	if sameID(jobLoc.ProvinceID, pick(f.ProvinceID, c.ProvinceID)) {
		pts += pointsProvince
		tiers = append(tiers, "province")
	}
	return pts, tiers
}

func pick(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func sameID(a, b string) bool {
	return a != "" && a == b
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func ageInDays(createdAt, now time.Time) int {
	if createdAt.IsZero() || !now.After(createdAt) {
		return 0
	}
	return int(math.Floor(now.Sub(createdAt).Hours() / 24))
}
