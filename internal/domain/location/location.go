package location

import (
	"errors"
	"strings"
)

// Ref is the province/regency/district triple used by jobs, candidates and
// score filters. Any part may be empty.
type Ref struct {
	ProvinceID string `json:"province_id,omitempty"`
	RegencyID  string `json:"regency_id,omitempty"`
	DistrictID string `json:"district_id,omitempty"`
}

func (r Ref) IsZero() bool {
	return r.ProvinceID == "" && r.RegencyID == "" && r.DistrictID == ""
}

type Level string

const (
	LevelProvince Level = "province"
	LevelRegency  Level = "regency"
	LevelDistrict Level = "district"
)

var ErrUnknownLevel = errors.New("unknown location level")

func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelProvince:
		return LevelProvince, nil
	case LevelRegency:
		return LevelRegency, nil
	case LevelDistrict:
		return LevelDistrict, nil
	default:
		return "", ErrUnknownLevel
	}
}

// Area is one named node of the administrative hierarchy. ParentID is empty
// for provinces.
type Area struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    Level  `json:"level"`
	ParentID string `json:"parent_id,omitempty"`
}
