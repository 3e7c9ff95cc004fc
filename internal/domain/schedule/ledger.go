package schedule

import (
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// capacityEpsilon absorbs float rounding when comparing hour sums to caps.
const capacityEpsilon = 1e-9

// CapacityLedger is what the greedy pass needs from a ledger.
type CapacityLedger interface {
	CanFitTask(date domain.Date, task *domain.Task) bool
	ReserveCapacity(date domain.Date, task *domain.Task)
}

type dayLoad struct {
	tasks      int
	hours      float64
	categories map[domain.Category]float64
}

// Ledger tracks, per calendar date, how many tasks and hours have been
// committed, overall and per category. Every query and reservation is a
// constant number of map operations; nothing rescans placed tasks.
//
// A Ledger is built for one scheduling run and is not safe for
// concurrent use.
type Ledger struct {
	limits domain.Limits
	days   map[domain.Date]*dayLoad
}

var _ CapacityLedger = (*Ledger)(nil)

// NewLedger creates an empty ledger enforcing limits.
func NewLedger(limits domain.Limits) *Ledger {
	return &Ledger{
		limits: limits.WithDefaults(),
		days:   make(map[domain.Date]*dayLoad),
	}
}

// Limits returns the limits the ledger enforces.
func (l *Ledger) Limits() domain.Limits {
	return l.limits
}

// TaskCount returns the number of tasks committed to date.
func (l *Ledger) TaskCount(date domain.Date) int {
	if day, ok := l.days[date]; ok {
		return day.tasks
	}
	return 0
}

// TotalHours returns the hours committed to date across all categories.
func (l *Ledger) TotalHours(date domain.Date) float64 {
	if day, ok := l.days[date]; ok {
		return day.hours
	}
	return 0
}

// CategoryHours returns the hours committed to date for category.
func (l *Ledger) CategoryHours(date domain.Date, category domain.Category) float64 {
	if day, ok := l.days[date]; ok {
		return day.categories[category]
	}
	return 0
}

// CanFitTask reports whether task can be placed on date without exceeding
// the date's task-count cap, total-hours cap, or the task's category cap.
// Weekday or weekend caps are chosen by the date's day of week.
func (l *Ledger) CanFitTask(date domain.Date, task *domain.Task) bool {
	if l.TaskCount(date)+1 > l.limits.DailyMaxTasks.On(date) {
		return false
	}
	if l.TotalHours(date)+task.EstimatedHours > l.limits.DailyMaxHours.On(date)+capacityEpsilon {
		return false
	}
	categoryCap := l.limits.Categories.For(task.Category).On(date)
	return l.CategoryHours(date, task.Category)+task.EstimatedHours <= categoryCap+capacityEpsilon
}

// ReserveCapacity commits task against date. Callers check CanFitTask
// first; the ledger itself does not refuse a reservation.
func (l *Ledger) ReserveCapacity(date domain.Date, task *domain.Task) {
	day, ok := l.days[date]
	if !ok {
		day = &dayLoad{categories: make(map[domain.Category]float64, len(domain.Categories))}
		l.days[date] = day
	}
	day.tasks++
	day.hours += task.EstimatedHours
	day.categories[task.Category] += task.EstimatedHours
}

// SeedWithExistingTasks pre-loads capacity for tasks whose date is already
// fixed (completed today, recurring, pinned) so the greedy pass never
// overbooks a day they partly fill. Tasks without a fixed date are
// ignored. Seeding may push a day past its caps; such a day simply
// accepts nothing more.
func (l *Ledger) SeedWithExistingTasks(tasks []*domain.Task, today domain.Date, loc *time.Location) int {
	seeded := 0
	for _, task := range tasks {
		date, ok := FixedDate(task, today, loc)
		if !ok {
			continue
		}
		l.ReserveCapacity(date, task)
		seeded++
	}
	return seeded
}
