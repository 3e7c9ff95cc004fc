package schedule

import (
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// Partition is the result of classifying tasks into mutually exclusive
// buckets. Every input task lands in exactly one bucket.
type Partition struct {
	Completed  []*domain.Task
	Recurring  []*domain.Task
	Pinned     []*domain.Task
	ToSchedule []*domain.Task
}

// Bucket names a Partition bucket.
type Bucket string

// Buckets in precedence order.
const (
	BucketCompleted  Bucket = "completed"
	BucketRecurring  Bucket = "recurring"
	BucketPinned     Bucket = "pinned"
	BucketToSchedule Bucket = "to_schedule"
)

// Classify returns the bucket for task. Precedence is fixed: completed,
// then recurring, then pinned-for-today, then everything else.
func Classify(task *domain.Task, today domain.Date) Bucket {
	switch {
	case task.Completed:
		return BucketCompleted
	case task.IsRecurring:
		return BucketRecurring
	case task.PinnedDate != nil && *task.PinnedDate == today:
		return BucketPinned
	default:
		return BucketToSchedule
	}
}

// PartitionTasks splits tasks into buckets, preserving input order
// within each bucket.
func PartitionTasks(tasks []*domain.Task, today domain.Date) Partition {
	var p Partition
	for _, task := range tasks {
		switch Classify(task, today) {
		case BucketCompleted:
			p.Completed = append(p.Completed, task)
		case BucketRecurring:
			p.Recurring = append(p.Recurring, task)
		case BucketPinned:
			p.Pinned = append(p.Pinned, task)
		default:
			p.ToSchedule = append(p.ToSchedule, task)
		}
	}
	return p
}

// FixedDate returns the date a task that the greedy pass does not move
// already occupies, for ledger seeding:
//   - completed tasks occupy today if they were completed today
//   - recurring tasks occupy their start date
//   - pinned tasks occupy their pinned date
//
// ok is false when the task occupies no capacity.
func FixedDate(task *domain.Task, today domain.Date, loc *time.Location) (date domain.Date, ok bool) {
	switch Classify(task, today) {
	case BucketCompleted:
		if task.CompletedAt != nil {
			if domain.DateIn(*task.CompletedAt, loc) == today {
				return today, true
			}
			return domain.Date{}, false
		}
		if task.StartDate != nil && *task.StartDate == today {
			return today, true
		}
		return domain.Date{}, false
	case BucketRecurring:
		if task.StartDate == nil {
			return domain.Date{}, false
		}
		return *task.StartDate, true
	case BucketPinned:
		return *task.PinnedDate, true
	default:
		return domain.Date{}, false
	}
}
