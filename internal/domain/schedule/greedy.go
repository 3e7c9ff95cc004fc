package schedule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// ScoredTask pairs a task with its score as of the run's "today".
type ScoredTask struct {
	Task      *domain.Task
	Breakdown ScoreBreakdown
	Quadrant  domain.Quadrant
}

// PriorityScore returns the total score.
func (s ScoredTask) PriorityScore() float64 {
	return s.Breakdown.Total
}

// GreedyOptions configures one greedy pass.
type GreedyOptions struct {
	Today         domain.Date
	LookAheadDays int
}

// Placement is the date the greedy pass chose for a task. Fits is false
// for best-effort placements made after the window was exhausted.
type Placement struct {
	Task *domain.Task
	Date domain.Date
	Fits bool
}

// GreedyResult collects placements in the order they were made.
type GreedyResult struct {
	Placements []Placement
	Warnings   []string
}

// SortByPriority orders tasks by score descending. Ties go to the task
// created first, then to the earlier input position, so the order is
// fully deterministic.
func SortByPriority(tasks []ScoredTask) {
	slices.SortStableFunc(tasks, func(a, b ScoredTask) int {
		if c := cmp.Compare(b.Breakdown.Total, a.Breakdown.Total); c != 0 {
			return c
		}
		return a.Task.CreatedAt.Compare(b.Task.CreatedAt)
	})
}

// ScheduleTasksGreedy places each task, highest priority first, on the
// first date from opts.Today onward, within opts.LookAheadDays days, that
// the ledger accepts, and reserves that capacity. When no date in the
// window fits, the task goes on the window's last day without a
// reservation and a warning names it.
//
// Each task costs at most LookAheadDays ledger probes, so a pass is
// O(n log n + n*LookAheadDays). The task's StartDate is set in place.
func ScheduleTasksGreedy(tasks []ScoredTask, ledger CapacityLedger, opts GreedyOptions) GreedyResult {
	window := opts.LookAheadDays
	if window <= 0 {
		window = DefaultLookAheadDays
	}
	lastDay := opts.Today.AddDays(window - 1)

	ordered := slices.Clone(tasks)
	SortByPriority(ordered)

	result := GreedyResult{Placements: make([]Placement, 0, len(ordered))}
	for _, scored := range ordered {
		task := scored.Task
		placement := Placement{Task: task, Date: lastDay}

		for offset := 0; offset < window; offset++ {
			date := opts.Today.AddDays(offset)
			if ledger.CanFitTask(date, task) {
				ledger.ReserveCapacity(date, task)
				placement.Date = date
				placement.Fits = true
				break
			}
		}

		if !placement.Fits {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Could not fit %q within %d days; placed on %s",
				task.Title, window, lastDay))
		}

		task.StartDate = domain.DatePtr(placement.Date)
		result.Placements = append(result.Placements, placement)
	}

	return result
}
