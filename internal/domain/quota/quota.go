// Package quota maps a subscription tier to its limits. Every saved-job and
// application limit in the service is read from here.
package quota

import "strings"

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

const (
	freeSavedJobs       = 2
	premiumSavedJobs    = 50
	freeApplications    = 5
	premiumApplications = 20
)

// ParseTier treats anything that is not the premium tag as free.
func ParseTier(s string) Tier {
	if Tier(strings.ToLower(strings.TrimSpace(s))) == TierPremium {
		return TierPremium
	}
	return TierFree
}

func IsPremium(t Tier) bool {
	return t == TierPremium
}

func MaxSavedJobs(t Tier) int {
	if IsPremium(t) {
		return premiumSavedJobs
	}
	return freeSavedJobs
}

func MaxApplications(t Tier) int {
	if IsPremium(t) {
		return premiumApplications
	}
	return freeApplications
}

func Label(t Tier) string {
	if IsPremium(t) {
		return "Premium"
	}
	return "Free"
}

// CanSave reports whether one more job fits under the saved-jobs limit.
func CanSave(t Tier, current int) bool {
	return current < MaxSavedJobs(t)
}
