package schedule

import (
	"slices"
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// Options configures one scheduling run.
type Options struct {
	// Today is the first day a task may be placed on. Required.
	Today domain.Date

	// Location turns created_at and completed_at timestamps into calendar
	// dates. Defaults to UTC.
	Location *time.Location

	// LookAheadDays bounds the greedy search. Defaults to Params.LookAheadDays.
	LookAheadDays int

	// Params defaults to NewDefaultParams().
	Params *Params
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Params == nil {
		o.Params = NewDefaultParams()
	}
	if o.LookAheadDays <= 0 {
		o.LookAheadDays = o.Params.LookAheadDays
	}
	if o.LookAheadDays <= 0 {
		o.LookAheadDays = DefaultLookAheadDays
	}
	return o
}

// Rescheduled is a task whose start date changed during a run.
type Rescheduled struct {
	Task         domain.Task  `json:"task"`
	PreviousDate *domain.Date `json:"previous_date"`
}

// Result is the outcome of AssignStartDates.
type Result struct {
	// Tasks holds every input task, in input order, with its final start date.
	Tasks []domain.Task

	// Warnings are soft failures the caller should surface to the user.
	Warnings []string

	// RescheduledTasks are the tasks whose start date differs from the input.
	// Only these need to be persisted.
	RescheduledTasks []Rescheduled

	// Duplicates are recurring occurrences that were ignored because an
	// earlier occurrence of the same series already holds that date.
	Duplicates []Duplicate
}

// AssignStartDates computes a start date for every schedulable task.
//
// The pipeline is: partition, dedupe recurring occurrences, seed a fresh
// ledger with everything whose date is fixed, score the remaining tasks and
// place them greedily. Completed, recurring and pinned tasks keep their
// dates. The input slice and the tasks in it are never modified.
//
// The run is deterministic: the same tasks, limits and options always
// produce the same assignments, so running it again on its own output
// reschedules nothing.
func AssignStartDates(tasks []domain.Task, limits domain.Limits, opts Options) Result {
	opts = opts.withDefaults()

	// Work on copies; StartDate pointers are only ever replaced, never
	// written through, so the caller's dates stay intact.
	working := slices.Clone(tasks)
	ptrs := make([]*domain.Task, len(working))
	for i := range working {
		ptrs[i] = &working[i]
	}

	part := PartitionTasks(ptrs, opts.Today)

	result := Result{}
	deduped := DeduplicateRecurringTasks(part.Recurring)
	for _, dup := range deduped.Duplicates {
		result.Duplicates = append(result.Duplicates, dup)
		result.Warnings = append(result.Warnings, dup.Message)
	}

	ledger := NewLedger(limits)
	ledger.SeedWithExistingTasks(part.Completed, opts.Today, opts.Location)
	ledger.SeedWithExistingTasks(deduped.Tasks, opts.Today, opts.Location)
	ledger.SeedWithExistingTasks(part.Pinned, opts.Today, opts.Location)

	scorer := NewScorer(opts.Params, opts.Location)
	scored := make([]ScoredTask, 0, len(part.ToSchedule))
	for _, task := range part.ToSchedule {
		scored = append(scored, ScoredTask{
			Task:      task,
			Breakdown: scorer.Breakdown(task, opts.Today),
			Quadrant:  task.Quadrant(),
		})
	}

	greedy := ScheduleTasksGreedy(scored, ledger, GreedyOptions{
		Today:         opts.Today,
		LookAheadDays: opts.LookAheadDays,
	})
	result.Warnings = append(result.Warnings, greedy.Warnings...)

	for i := range working {
		if domain.SameDate(tasks[i].StartDate, working[i].StartDate) {
			continue
		}
		var previous *domain.Date
		if tasks[i].StartDate != nil {
			previous = domain.DatePtr(*tasks[i].StartDate)
		}
		result.RescheduledTasks = append(result.RescheduledTasks, Rescheduled{
			Task:         working[i],
			PreviousDate: previous,
		})
	}

	result.Tasks = working
	return result
}
