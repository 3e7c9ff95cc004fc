package domain

import (
	"time"

	"github.com/google/uuid"
)

// HourCaps is an hours ceiling split by weekday/weekend.
// It is used both per category and for the whole day.
type HourCaps struct {
	Weekday float64 `json:"weekday" yaml:"weekday" validate:"gte=0,lte=24"`
	Weekend float64 `json:"weekend" yaml:"weekend" validate:"gte=0,lte=24"`
}

// On returns the cap that applies to date.
func (c HourCaps) On(date Date) float64 {
	if date.IsWeekend() {
		return c.Weekend
	}
	return c.Weekday
}

// TaskCaps is a task-count ceiling split by weekday/weekend.
type TaskCaps struct {
	Weekday int `json:"weekday" yaml:"weekday" validate:"gte=1,lte=20"`
	Weekend int `json:"weekend" yaml:"weekend" validate:"gte=1,lte=20"`
}

// On returns the cap that applies to date.
func (c TaskCaps) On(date Date) int {
	if date.IsWeekend() {
		return c.Weekend
	}
	return c.Weekday
}

// DefaultDailyMaxTasks applies when a profile has no task-count caps.
var DefaultDailyMaxTasks = TaskCaps{Weekday: 4, Weekend: 4}

// CategoryLimits holds one HourCaps per category. Categories are fields
// rather than map keys, so a category can never be missing.
type CategoryLimits struct {
	Work     HourCaps `json:"work"     yaml:"work"`
	Home     HourCaps `json:"home"     yaml:"home"`
	Health   HourCaps `json:"health"   yaml:"health"`
	Personal HourCaps `json:"personal" yaml:"personal"`
}

// For returns the caps for category. Unknown categories get zero caps,
// which means nothing of that category ever fits.
func (l CategoryLimits) For(category Category) HourCaps {
	switch category {
	case CategoryWork:
		return l.Work
	case CategoryHome:
		return l.Home
	case CategoryHealth:
		return l.Health
	case CategoryPersonal:
		return l.Personal
	default:
		return HourCaps{}
	}
}

// Limits bundles every capacity rule the scheduler enforces.
type Limits struct {
	Categories    CategoryLimits `json:"category_limits" yaml:"category_limits"`
	DailyMaxHours HourCaps       `json:"daily_max_hours" yaml:"daily_max_hours"`
	DailyMaxTasks TaskCaps       `json:"daily_max_tasks" yaml:"daily_max_tasks"`
}

// DefaultLimits returns the limits given to new users.
func DefaultLimits() Limits {
	return Limits{
		Categories: CategoryLimits{
			Work:     HourCaps{Weekday: 6, Weekend: 2},
			Home:     HourCaps{Weekday: 2, Weekend: 4},
			Health:   HourCaps{Weekday: 1, Weekend: 2},
			Personal: HourCaps{Weekday: 2, Weekend: 4},
		},
		DailyMaxHours: HourCaps{Weekday: 8, Weekend: 6},
		DailyMaxTasks: DefaultDailyMaxTasks,
	}
}

// CapacitySettings is a user's persisted scheduling profile.
type CapacitySettings struct {
	UserID    uuid.UUID `json:"user_id"`
	Limits    Limits    `json:"limits"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCapacitySettings returns default settings for userID.
func NewCapacitySettings(userID uuid.UUID) *CapacitySettings {
	return &CapacitySettings{
		UserID:    userID,
		Limits:    DefaultLimits(),
		UpdatedAt: time.Now().UTC(),
	}
}

// WithDefaults fills in caps the caller left empty. Only DailyMaxTasks
// has a defined default; a zero hours cap is a legitimate "no time".
func (l Limits) WithDefaults() Limits {
	if l.DailyMaxTasks.Weekday == 0 && l.DailyMaxTasks.Weekend == 0 {
		l.DailyMaxTasks = DefaultDailyMaxTasks
	}
	return l
}
