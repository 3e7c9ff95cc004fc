package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups tasks for per-category capacity limits.
type Category string

// The closed set of task categories.
const (
	CategoryWork     Category = "work"
	CategoryHome     Category = "home"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryHome, CategoryHealth, CategoryPersonal}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryHome, CategoryHealth, CategoryPersonal:
		return true
	default:
		return false
	}
}

// ParseCategory accepts a category name in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("category", "must be one of work, home, health, personal", ErrValidation)
	}
	return c, nil
}

// Importance is the important/not-important axis of the Eisenhower matrix.
type Importance string

// Importance values.
const (
	Important    Importance = "important"
	NotImportant Importance = "not-important"
)

// Urgency is the urgent/not-urgent axis of the Eisenhower matrix.
type Urgency string

// Urgency values.
const (
	Urgent    Urgency = "urgent"
	NotUrgent Urgency = "not-urgent"
)

// Quadrant is the Eisenhower classification of a task.
type Quadrant string

// The four quadrants.
const (
	QuadrantDoFirst   Quadrant = "do-first"  // urgent + important
	QuadrantSchedule  Quadrant = "schedule"  // important only
	QuadrantDelegate  Quadrant = "delegate"  // urgent only
	QuadrantEliminate Quadrant = "eliminate" // neither
)

// Task validation errors
var (
	ErrTaskIDEmpty           = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty       = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty        = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong      = errors.New("task title must be at most 200 characters")
	ErrTaskInvalidHours      = errors.New("estimated hours must be greater than 0 and at most 24")
	ErrTaskInvalidCategory   = errors.New("invalid task category")
	ErrTaskInvalidImportance = errors.New("importance must be important or not-important")
	ErrTaskInvalidUrgency    = errors.New("urgency must be urgent or not-urgent")
	ErrTaskSeriesRequired    = errors.New("recurring task requires a recurring series ID")
)

// MaxTitleLength bounds Task.Title.
const MaxTitleLength = 200

// Task is a unit of work owned by a user. StartDate is the scheduler's
// output; PinnedDate is a user override the scheduler treats as fixed.
type Task struct {
	ID                uuid.UUID  `json:"id"                            yaml:"id"`
	UserID            uuid.UUID  `json:"user_id"                       yaml:"user_id"`
	Title             string     `json:"title"                         yaml:"title"`
	Category          Category   `json:"category"                      yaml:"category"`
	EstimatedHours    float64    `json:"estimated_hours"               yaml:"estimated_hours"`
	Importance        Importance `json:"importance"                    yaml:"importance"`
	Urgency           Urgency    `json:"urgency"                       yaml:"urgency"`
	DueDate           *Date      `json:"due_date,omitempty"            yaml:"due_date,omitempty"`
	StartDate         *Date      `json:"start_date,omitempty"          yaml:"start_date,omitempty"`
	PinnedDate        *Date      `json:"pinned_date,omitempty"         yaml:"pinned_date,omitempty"`
	Completed         bool       `json:"completed"                     yaml:"completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"        yaml:"completed_at,omitempty"`
	IsRecurring       bool       `json:"is_recurring"                  yaml:"is_recurring"`
	RecurringSeriesID *uuid.UUID `json:"recurring_series_id,omitempty" yaml:"recurring_series_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"                    yaml:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"                    yaml:"updated_at"`
}

// NewTask creates a Task for userID with a fresh ID and timestamps.
// Optional fields are set by the caller before Validate is called again.
func NewTask(
	userID uuid.UUID,
	title string,
	category Category,
	estimatedHours float64,
	importance Importance,
	urgency Urgency,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		Category:       category,
		EstimatedHours: estimatedHours,
		Importance:     importance,
		Urgency:        urgency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}
	if len(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}
	if !t.Category.Valid() {
		return ErrTaskInvalidCategory
	}
	if t.EstimatedHours <= 0 || t.EstimatedHours > 24 {
		return ErrTaskInvalidHours
	}
	if t.Importance != Important && t.Importance != NotImportant {
		return ErrTaskInvalidImportance
	}
	if t.Urgency != Urgent && t.Urgency != NotUrgent {
		return ErrTaskInvalidUrgency
	}
	if t.IsRecurring && (t.RecurringSeriesID == nil || *t.RecurringSeriesID == uuid.Nil) {
		return ErrTaskSeriesRequired
	}
	return nil
}

// IsImportant reports whether the task sits on the important axis.
func (t *Task) IsImportant() bool { return t.Importance == Important }

// IsUrgent reports whether the task sits on the urgent axis.
func (t *Task) IsUrgent() bool { return t.Urgency == Urgent }

// Quadrant maps the task's importance and urgency to its Eisenhower quadrant.
func (t *Task) Quadrant() Quadrant {
	switch {
	case t.IsUrgent() && t.IsImportant():
		return QuadrantDoFirst
	case t.IsImportant():
		return QuadrantSchedule
	case t.IsUrgent():
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Complete marks the task done at now.
func (t *Task) Complete(now time.Time) {
	t.Completed = true
	completedAt := now.UTC()
	t.CompletedAt = &completedAt
	t.UpdatedAt = now.UTC()
}

// Reopen clears the completion state.
func (t *Task) Reopen(now time.Time) {
	t.Completed = false
	t.CompletedAt = nil
	t.UpdatedAt = now.UTC()
}

// Pin fixes the task to date and moves its start date there; a nil date
// removes the pin and leaves the start date for the next reschedule.
func (t *Task) Pin(date *Date, now time.Time) {
	if date == nil {
		t.PinnedDate = nil
	} else {
		pinned, start := *date, *date
		t.PinnedDate = &pinned
		t.StartDate = &start
	}
	t.UpdatedAt = now.UTC()
}
