package schedule

import (
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
)

// Service defines the interface for scheduling engine operations
type Service interface {
	// AssignStartDates places every schedulable task within capacity
	AssignStartDates(tasks []domain.Task, limits domain.Limits, today domain.Date) Result

	// TodaysFocus returns today's tasks, best first, capped by dailyMaxTasks
	TodaysFocus(tasks []domain.Task, dailyMaxTasks domain.TaskCaps, today domain.Date) []PrioritizedTask

	// Prioritize scores a single task
	Prioritize(task domain.Task, today domain.Date) PrioritizedTask

	// AddPriorityScores scores every task, keeping input order
	AddPriorityScores(tasks []domain.Task, today domain.Date) []PrioritizedTask

	// In returns a Service that reads timestamps in loc
	In(loc *time.Location) Service
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
	loc    *time.Location
}

// NewDefaultService creates a new scheduling service with default parameters in UTC
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
		loc:    time.UTC,
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
// loc is used to turn stored timestamps into calendar dates; nil means UTC.
func NewServiceWithParams(params *Params, loc *time.Location) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &defaultService{
		params: params,
		loc:    loc,
	}
}

func (s *defaultService) options(today domain.Date) Options {
	return Options{Today: today, Location: s.loc, Params: s.params}
}

// AssignStartDates implements Service.
func (s *defaultService) AssignStartDates(tasks []domain.Task, limits domain.Limits, today domain.Date) Result {
	return AssignStartDates(tasks, limits, s.options(today))
}

// TodaysFocus implements Service.
func (s *defaultService) TodaysFocus(
	tasks []domain.Task,
	dailyMaxTasks domain.TaskCaps,
	today domain.Date,
) []PrioritizedTask {
	return TodaysFocusTasks(tasks, dailyMaxTasks, s.options(today))
}

// Prioritize implements Service.
func (s *defaultService) Prioritize(task domain.Task, today domain.Date) PrioritizedTask {
	return Prioritize(task, s.options(today))
}

// AddPriorityScores implements Service.
func (s *defaultService) AddPriorityScores(tasks []domain.Task, today domain.Date) []PrioritizedTask {
	return AddPriorityScores(tasks, s.options(today))
}

// In implements Service.
func (s *defaultService) In(loc *time.Location) Service {
	return NewServiceWithParams(s.params, loc)
}
