package exercise

type UnitType string

const (
	UnitReps UnitType = "reps"
	UnitKm   UnitType = "km"
)

type Category string

const (
	CategoryCardio      Category = "cardio"
	CategoryStrength    Category = "strength"
	CategoryFlexibility Category = "flexibility"
)

// Exercise is a catalog entry referenced by challenges. The caps are the
// per-entry rate ceiling and the per-day session ceiling enforced when
// progress is logged.
type Exercise struct {
	ID                int64    `json:"id" db:"id"`
	Name              string   `json:"name" db:"name"`
	MaxSessionsPerDay int      `json:"max_sessions_per_day" db:"max_sessions_per_day"`
	MaxRatePerMinute  float64  `json:"max_rate_per_minute" db:"max_rate_per_minute"`
	UnitType          UnitType `json:"unit_type" db:"unit_type"`
	Category          Category `json:"category" db:"category"`
}

type UpsertExerciseRequest struct {
	Name              string   `json:"name"`
	MaxSessionsPerDay int      `json:"max_sessions_per_day"`
	MaxRatePerMinute  float64  `json:"max_rate_per_minute"`
	UnitType          UnitType `json:"unit_type"`
	Category          Category `json:"category"`
}

func (r *UpsertExerciseRequest) Validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.MaxSessionsPerDay < 1 {
		return "max_sessions_per_day must be at least 1"
	}
	if r.MaxRatePerMinute <= 0 {
		return "max_rate_per_minute must be greater than 0"
	}
	switch r.UnitType {
	case UnitReps, UnitKm:
	default:
		return "unit_type must be 'reps' or 'km'"
	}
	switch r.Category {
	case CategoryCardio, CategoryStrength, CategoryFlexibility:
	default:
		return "category must be 'cardio', 'strength' or 'flexibility'"
	}
	return ""
}
