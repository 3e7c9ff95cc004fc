package schedule

import (
	"cmp"
	"slices"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// PrioritizedTask is a task annotated with its score and display quadrant.
type PrioritizedTask struct {
	Task          domain.Task     `json:"task"`
	PriorityScore float64         `json:"priority_score"`
	Breakdown     ScoreBreakdown  `json:"breakdown"`
	Quadrant      domain.Quadrant `json:"quadrant"`
	Reason        string          `json:"reason"`
}

// Prioritize scores one task as of opts.Today.
func Prioritize(task domain.Task, opts Options) PrioritizedTask {
	opts = opts.withDefaults()
	return prioritize(NewScorer(opts.Params, opts.Location), task, opts.Today)
}

func prioritize(scorer *Scorer, task domain.Task, today domain.Date) PrioritizedTask {
	breakdown := scorer.Breakdown(&task, today)
	return PrioritizedTask{
		Task:          task,
		PriorityScore: breakdown.Total,
		Breakdown:     breakdown,
		Quadrant:      EisenhowerQuadrant(&task),
		Reason:        scorer.Reason(&task, today),
	}
}

// AddPriorityScores annotates every task, keeping input order.
func AddPriorityScores(tasks []domain.Task, opts Options) []PrioritizedTask {
	opts = opts.withDefaults()
	scorer := NewScorer(opts.Params, opts.Location)

	out := make([]PrioritizedTask, len(tasks))
	for i, task := range tasks {
		out[i] = prioritize(scorer, task, opts.Today)
	}
	return out
}

// TodaysFocusTasks returns the open tasks due to be worked today, highest
// score first, truncated to today's task-count cap. A task is on today
// when it is pinned to today or starts today. Recurring occurrences of one
// series on today collapse to the earliest-created one.
func TodaysFocusTasks(tasks []domain.Task, dailyMaxTasks domain.TaskCaps, opts Options) []PrioritizedTask {
	opts = opts.withDefaults()
	scorer := NewScorer(opts.Params, opts.Location)

	candidates := make([]*domain.Task, 0, len(tasks))
	for i := range tasks {
		if onDay(&tasks[i], opts.Today) {
			candidates = append(candidates, &tasks[i])
		}
	}
	candidates = DeduplicateRecurringTasks(candidates).Tasks

	focus := make([]PrioritizedTask, 0, len(candidates))
	for _, task := range candidates {
		focus = append(focus, prioritize(scorer, *task, opts.Today))
	}

	slices.SortStableFunc(focus, func(a, b PrioritizedTask) int {
		if c := cmp.Compare(b.PriorityScore, a.PriorityScore); c != 0 {
			return c
		}
		return a.Task.CreatedAt.Compare(b.Task.CreatedAt)
	})

	if limit := dailyMaxTasks.On(opts.Today); len(focus) > limit {
		focus = focus[:limit]
	}
	return focus
}

func onDay(task *domain.Task, day domain.Date) bool {
	if task.Completed {
		return false
	}
	if task.PinnedDate != nil && *task.PinnedDate == day {
		return true
	}
	return task.StartDate != nil && *task.StartDate == day
}

// EisenhowerQuadrant maps importance and urgency to a display label.
// It has no effect on placement beyond the base score.
func EisenhowerQuadrant(task *domain.Task) domain.Quadrant {
	return task.Quadrant()
}
