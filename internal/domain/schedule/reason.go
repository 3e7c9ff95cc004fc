package schedule

import (
	"fmt"
	"strconv"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// Reason returns a short human-readable explanation of why the task is
// prioritized the way it is. The first matching rule wins:
// completed, overdue, due today, due tomorrow, due within DueSoonDays,
// due within DueThisWeekDays, quadrant, aging, and finally a default.
func (s *Scorer) Reason(task *domain.Task, today domain.Date) string {
	if task.Completed {
		return "Completed"
	}

	if task.DueDate != nil {
		days := today.DaysUntil(*task.DueDate)
		switch {
		case days < 0:
			return fmt.Sprintf("Overdue by %s", pluralDays(-days))
		case days == 0:
			return "Due today"
		case days == 1:
			if s.isLarge(task) {
				return fmt.Sprintf("%sh task, due tomorrow", formatHours(task.EstimatedHours))
			}
			return "Due tomorrow"
		case days <= s.params.DueSoonDays:
			if s.isLarge(task) {
				return fmt.Sprintf("%sh task, due in %d days", formatHours(task.EstimatedHours), days)
			}
			return fmt.Sprintf("Due in %d days", days)
		case days <= s.params.DueThisWeekDays:
			return fmt.Sprintf("Due in %d days", days)
		}
	}

	switch task.Quadrant() {
	case domain.QuadrantDoFirst:
		return "Urgent + Important"
	case domain.QuadrantSchedule:
		return "High impact"
	case domain.QuadrantDelegate:
		return "Urgent"
	}

	if age := s.ageDays(task, today); age > 0 {
		return fmt.Sprintf("Aging %s", pluralDays(age))
	}

	return "Scheduled today"
}

func (s *Scorer) isLarge(task *domain.Task) bool {
	return task.EstimatedHours >= s.params.LargeTaskHours
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// formatHours renders 4 as "4" and 2.5 as "2.5".
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
