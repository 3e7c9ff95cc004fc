package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"              validate:"required,email"`
	Password string `json:"password"           validate:"required,min=12,max=72"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TaskRequest is the body of task create and update calls.
type TaskRequest struct {
	Title             string       `json:"title"                         validate:"required,max=200"`
	Category          string       `json:"category"                      validate:"required,oneof=work home health personal"`
	EstimatedHours    float64      `json:"estimated_hours"               validate:"gt=0,lte=24"`
	Importance        string       `json:"importance"                    validate:"required,oneof=important not-important"`
	Urgency           string       `json:"urgency"                       validate:"required,oneof=urgent not-urgent"`
	DueDate           *domain.Date `json:"due_date,omitempty"`
	IsRecurring       bool         `json:"is_recurring"`
	RecurringSeriesID *uuid.UUID   `json:"recurring_series_id,omitempty"`
}

func (req TaskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:             req.Title,
		Category:          domain.Category(req.Category),
		EstimatedHours:    req.EstimatedHours,
		Importance:        domain.Importance(req.Importance),
		Urgency:           domain.Urgency(req.Urgency),
		DueDate:           req.DueDate,
		IsRecurring:       req.IsRecurring,
		RecurringSeriesID: req.RecurringSeriesID,
	}
}

// PinRequest pins a task to a date; a null date unpins it.
type PinRequest struct {
	Date *domain.Date `json:"date"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// SettingsRequest replaces a user's capacity limits.
type SettingsRequest struct {
	CategoryLimits domain.CategoryLimits `json:"category_limits"`
	DailyMaxHours  domain.HourCaps       `json:"daily_max_hours"`
	DailyMaxTasks  *domain.TaskCaps      `json:"daily_max_tasks,omitempty"`
}

// Validate defers range checks to the settings service so that a missing
// DailyMaxTasks can take its default first.
func (req SettingsRequest) Validate() error { return nil }

func (req SettingsRequest) toLimits() domain.Limits {
	limits := domain.Limits{
		Categories:    req.CategoryLimits,
		DailyMaxHours: req.DailyMaxHours,
	}
	if req.DailyMaxTasks != nil {
		limits.DailyMaxTasks = *req.DailyMaxTasks
	}
	return limits
}

// UpdateUserRequest changes account preferences.
type UpdateUserRequest struct {
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt,
	}
}

// RescheduledTask reports one changed start date.
type RescheduledTask struct {
	TaskID       uuid.UUID    `json:"task_id"`
	Title        string       `json:"title"`
	PreviousDate *domain.Date `json:"previous_date"`
	StartDate    *domain.Date `json:"start_date"`
}

// DuplicateTask reports a recurring occurrence the scheduler ignored.
type DuplicateTask struct {
	TaskID  uuid.UUID   `json:"task_id"`
	KeptID  uuid.UUID   `json:"kept_id"`
	Date    domain.Date `json:"date"`
	Message string      `json:"message"`
}

// ScheduleResponse is the outcome of a reschedule.
type ScheduleResponse struct {
	Tasks            []domain.Task     `json:"tasks"`
	RescheduledTasks []RescheduledTask `json:"rescheduled_tasks"`
	Duplicates       []DuplicateTask   `json:"duplicates"`
	Warnings         []string          `json:"warnings"`
}

func scheduleResponse(result *schedule.Result) ScheduleResponse {
	resp := ScheduleResponse{
		Tasks:            result.Tasks,
		RescheduledTasks: make([]RescheduledTask, 0, len(result.RescheduledTasks)),
		Duplicates:       make([]DuplicateTask, 0, len(result.Duplicates)),
		Warnings:         result.Warnings,
	}
	if resp.Tasks == nil {
		resp.Tasks = []domain.Task{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	for _, r := range result.RescheduledTasks {
		resp.RescheduledTasks = append(resp.RescheduledTasks, RescheduledTask{
			TaskID:       r.Task.ID,
			Title:        r.Task.Title,
			PreviousDate: r.PreviousDate,
			StartDate:    r.Task.StartDate,
		})
	}
	for _, d := range result.Duplicates {
		dup := DuplicateTask{KeptID: d.KeptID, Date: d.Date, Message: d.Message}
		if d.Task != nil {
			dup.TaskID = d.Task.ID
		}
		resp.Duplicates = append(resp.Duplicates, dup)
	}
	return resp
}
