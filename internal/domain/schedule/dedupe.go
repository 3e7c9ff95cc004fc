package schedule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
)

// Duplicate records a recurring occurrence dropped in favor of an
// earlier-created occurrence of the same series on the same date.
type Duplicate struct {
	Task    *domain.Task
	KeptID  uuid.UUID
	Date    domain.Date
	Message string
}

// DedupeResult holds the surviving tasks, in input order, and the
// duplicates that were removed.
type DedupeResult struct {
	Tasks      []*domain.Task
	Duplicates []Duplicate
}

type occurrenceKey struct {
	series uuid.UUID
	date   domain.Date
}

// DeduplicateRecurringTasks keeps at most one non-completed task per
// (recurring series, start date). The survivor is the one created first;
// equal timestamps keep the earlier input position.
//
// Completed tasks and tasks missing a series ID or a start date are never
// compared against anything and always survive, even if they look
// identical to another task.
func DeduplicateRecurringTasks(tasks []*domain.Task) DedupeResult {
	keepers := make(map[occurrenceKey]int, len(tasks))
	for i, task := range tasks {
		key, ok := dedupeKey(task)
		if !ok {
			continue
		}
		current, seen := keepers[key]
		if !seen || task.CreatedAt.Before(tasks[current].CreatedAt) {
			keepers[key] = i
		}
	}

	result := DedupeResult{Tasks: make([]*domain.Task, 0, len(tasks))}
	for i, task := range tasks {
		key, ok := dedupeKey(task)
		if !ok || keepers[key] == i {
			result.Tasks = append(result.Tasks, task)
			continue
		}
		result.Duplicates = append(result.Duplicates, Duplicate{
			Task:    task,
			KeptID:  tasks[keepers[key]].ID,
			Date:    key.date,
			Message: fmt.Sprintf("Removed duplicate recurring task %q on %s", task.Title, key.date),
		})
	}
	return result
}

func dedupeKey(task *domain.Task) (occurrenceKey, bool) {
	if task.Completed || task.RecurringSeriesID == nil || task.StartDate == nil {
		return occurrenceKey{}, false
	}
	return occurrenceKey{series: *task.RecurringSeriesID, date: *task.StartDate}, true
}
