package schedule

import (
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// ScoreBreakdown is the additive decomposition of a task's priority score.
// Total is always Base + Deadline + Duration + Age.
type ScoreBreakdown struct {
	Base     float64 `json:"base"`
	Deadline float64 `json:"deadline"`
	Duration float64 `json:"duration"`
	Age      float64 `json:"age"`
	Total    float64 `json:"total"`
}

// Scorer computes priority scores and reasons. It is a pure function of
// the task, the caller's "today" and its params; it never reads a clock.
type Scorer struct {
	params *Params
	loc    *time.Location
}

// NewScorer returns a Scorer. loc converts created_at timestamps to
// calendar dates for the age score; nil means UTC.
func NewScorer(params *Params, loc *time.Location) *Scorer {
	if params == nil {
		params = NewDefaultParams()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scorer{params: params, loc: loc}
}

// Breakdown computes every score component for task as of today.
func (s *Scorer) Breakdown(task *domain.Task, today domain.Date) ScoreBreakdown {
	b := ScoreBreakdown{
		Base:     s.baseScore(task),
		Deadline: s.deadlineScore(task, today),
		Duration: s.durationScore(task, today),
		Age:      s.ageScore(task, today),
	}
	b.Total = b.Base + b.Deadline + b.Duration + b.Age
	return b
}

// Score returns the total priority score. It is identical to
// Breakdown(task, today).Total.
func (s *Scorer) Score(task *domain.Task, today domain.Date) float64 {
	return s.Breakdown(task, today).Total
}

func (s *Scorer) baseScore(task *domain.Task) float64 {
	return s.params.QuadrantScores[task.Quadrant()]
}

// deadlineScore rewards proximity to the due date.
//
// Parameters:
//   - task: the task being scored; completed tasks and tasks without a due date score 0
//   - today: the caller's current date
//
// Returns:
//   - OverdueBaseScore + OverduePerDayScore*D when overdue by D days
//   - DueTodayScore when due today
//   - DueTomorrowScore, DueSoonScore, DueThisWeekScore for the graduated tiers
//   - 0 beyond DueThisWeekDays
//
// The result never increases as days-until-due grows.
func (s *Scorer) deadlineScore(task *domain.Task, today domain.Date) float64 {
	if task.Completed || task.DueDate == nil {
		return 0
	}

	days := today.DaysUntil(*task.DueDate)
	switch {
	case days < 0:
		return s.params.OverdueBaseScore + s.params.OverduePerDayScore*float64(-days)
	case days == 0:
		return s.params.DueTodayScore
	case days == 1:
		return s.params.DueTomorrowScore
	case days <= s.params.DueSoonDays:
		return s.params.DueSoonScore
	case days <= s.params.DueThisWeekDays:
		return s.params.DueThisWeekScore
	default:
		return 0
	}
}

// durationScore boosts large tasks whose deadline is close, so an 8 hour
// task due tomorrow earns 15*8/1 = 120. Overdue and due-today tasks use a
// divisor of 1.
func (s *Scorer) durationScore(task *domain.Task, today domain.Date) float64 {
	if task.DueDate == nil {
		return 0
	}
	days := today.DaysUntil(*task.DueDate)
	if days < 1 {
		days = 1
	}
	return s.params.DurationFactor * task.EstimatedHours / float64(days)
}

func (s *Scorer) ageScore(task *domain.Task, today domain.Date) float64 {
	age := float64(s.ageDays(task, today))
	if age > s.params.MaxAgeScore {
		return s.params.MaxAgeScore
	}
	return age
}

// ageDays is the number of calendar days since the task was created,
// never negative.
func (s *Scorer) ageDays(task *domain.Task, today domain.Date) int {
	if task.CreatedAt.IsZero() {
		return 0
	}
	days := domain.DateIn(task.CreatedAt, s.loc).DaysUntil(today)
	if days < 0 {
		return 0
	}
	return days
}
