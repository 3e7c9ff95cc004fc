package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// planFile is the on-disk input. JSON files parse as YAML.
type planFile struct {
	Today    string         `yaml:"today"`
	Timezone string         `yaml:"timezone"`
	Limits   *domain.Limits `yaml:"limits"`
	Tasks    []domain.Task  `yaml:"tasks"`
}

// plan is a loaded task file resolved against the command flags.
type plan struct {
	tasks  []domain.Task
	limits domain.Limits
	today  domain.Date
	engine schedule.Service
}

func readPlanFile(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &file, nil
}

// loadPlan reads the file named by --file and applies the override flags.
// Tasks without an ID or creation time get one, so hand-written files
// only need the fields a person cares about.
func loadPlan(cmd *cobra.Command, now time.Time) (*plan, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	todayFlag, _ := flags.GetString("today")
	tzFlag, _ := flags.GetString("timezone")
	lookAhead, _ := flags.GetInt("look-ahead")

	file, err := readPlanFile(path)
	if err != nil {
		return nil, err
	}

	tz := file.Timezone
	if tzFlag != "" {
		tz = tzFlag
	}
	loc := time.UTC
	if tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("unknown time zone %q", tz)
		}
	}

	today := domain.DateIn(now, loc)
	for _, raw := range []string{file.Today, todayFlag} {
		if raw == "" {
			continue
		}
		if today, err = domain.ParseDate(raw); err != nil {
			return nil, fmt.Errorf("invalid today %q: %w", raw, err)
		}
	}

	limits := domain.DefaultLimits()
	if file.Limits != nil {
		limits = file.Limits.WithDefaults()
	}
	if err := validate.Struct(limits); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}

	owner := uuid.New()
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	tasks := make([]domain.Task, len(file.Tasks))
	for i, task := range file.Tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		if task.UserID == uuid.Nil {
			task.UserID = owner
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = startOfToday
		}
		if task.IsRecurring && task.RecurringSeriesID == nil {
			series := task.ID
			task.RecurringSeriesID = &series
		}
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %d (%q): %w", i+1, task.Title, err)
		}
		tasks[i] = task
	}

	params := schedule.NewParams(schedule.ParamsConfig{LookAheadDays: lookAhead})
	return &plan{
		tasks:  tasks,
		limits: limits,
		today:  today,
		engine: schedule.NewServiceWithParams(params, loc),
	}, nil
}
