// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage is a publication's position in the processing lifecycle. Stages are
// ordered; transitions move forward only, except for a forced reset back to
// StageIntake.
type Stage int

const (
	StageIntake Stage = iota
	StageInspected
	StageConverted
	StageCleaned
	StagePublished
	StageArchived
)

var stageNames = map[Stage]string{
	StageIntake:    "intake",
	StageInspected: "inspected",
	StageConverted: "converted",
	StageCleaned:   "cleaned",
	StagePublished: "published",
	StageArchived:  "archived",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStage maps a stage name back to its Stage value. Unknown names
// return StageIntake and false.
func ParseStage(name string) (Stage, bool) {
	for stage, n := range stageNames {
		if n == name {
			return stage, true
		}
	}
	return StageIntake, false
}

// Before reports whether s comes earlier in the lifecycle than other.
func (s Stage) Before(other Stage) bool {
	return s < other
}
