package schedule

import (
	"github.com/phrazzld/cadence-api/internal/domain"
)

// Params defines all tunable constants of the priority scorer and the
// greedy placement pass.
type Params struct {
	// Base score per Eisenhower quadrant
	QuadrantScores map[domain.Quadrant]float64

	// Deadline proximity. Thresholds are in calendar days until due.
	OverdueBaseScore   float64
	OverduePerDayScore float64
	DueTodayScore      float64
	DueTomorrowScore   float64
	DueSoonScore       float64
	DueSoonDays        int
	DueThisWeekScore   float64
	DueThisWeekDays    int

	// Duration bonus: DurationFactor * hours / max(1, days until due)
	DurationFactor float64

	// Age score grows one point per day up to MaxAgeScore
	MaxAgeScore float64

	// Tasks at least this long get the "{H}h task" reason clause
	LargeTaskHours float64

	// Number of days, starting today, the greedy pass may search
	LookAheadDays int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	LookAheadDays  int
	DurationFactor float64
	MaxAgeScore    float64
	LargeTaskHours float64
}

// DefaultLookAheadDays is the search window used when none is configured.
const DefaultLookAheadDays = 30

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		QuadrantScores: map[domain.Quadrant]float64{
			domain.QuadrantDoFirst:   100,
			domain.QuadrantSchedule:  80,
			domain.QuadrantDelegate:  60,
			domain.QuadrantEliminate: 40,
		},

		OverdueBaseScore:   200,
		OverduePerDayScore: 25,
		DueTodayScore:      150,
		DueTomorrowScore:   100,
		DueSoonScore:       75,
		DueSoonDays:        3,
		DueThisWeekScore:   40,
		DueThisWeekDays:    7,

		DurationFactor: 15,
		MaxAgeScore:    10,
		LargeTaskHours: 4,

		LookAheadDays: DefaultLookAheadDays,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.LookAheadDays > 0 {
		params.LookAheadDays = config.LookAheadDays
	}
	if config.DurationFactor > 0 {
		params.DurationFactor = config.DurationFactor
	}
	if config.MaxAgeScore > 0 {
		params.MaxAgeScore = config.MaxAgeScore
	}
	if config.LargeTaskHours > 0 {
		params.LargeTaskHours = config.LargeTaskHours
	}

	return params
}
