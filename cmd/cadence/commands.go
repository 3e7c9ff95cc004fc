package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Assign start dates within daily capacity",
		Long: `Assign a start date to every open task without a fixed date, filling
each day up to its category, hour and task-count limits. Completed,
recurring and pinned tasks keep their dates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlan(cmd, now())
			if err != nil {
				return err
			}

			result := p.engine.AssignStartDates(p.tasks, p.limits, p.today)
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), planOutput(p.today, result))
			}
			printPlan(cmd.OutOrStdout(), p.today, result)
			return nil
		},
	}
}

func focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus",
		Short: "List today's tasks, most pressing first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlan(cmd, now())
			if err != nil {
				return err
			}

			planned := p.engine.AssignStartDates(p.tasks, p.limits, p.today)
			focus := p.engine.TodaysFocus(planned.Tasks, p.limits.DailyMaxTasks, p.today)
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), focus)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Focus for %s\n", p.today)
			if len(focus) == 0 {
				fmt.Fprintln(out, "  nothing scheduled today")
				return nil
			}
			printScored(out, focus)
			return nil
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show the priority score breakdown of every open task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlan(cmd, now())
			if err != nil {
				return err
			}

			open := make([]domain.Task, 0, len(p.tasks))
			for _, task := range p.tasks {
				if !task.Completed {
					open = append(open, task)
				}
			}
			scored := p.engine.AddPriorityScores(open, p.today)
			slices.SortStableFunc(scored, func(a, b schedule.PrioritizedTask) int {
				return cmp.Compare(b.PriorityScore, a.PriorityScore)
			})

			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), scored)
			}
			printScored(cmd.OutOrStdout(), scored)
			return nil
		},
	}
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type planJSON struct {
	Today       domain.Date   `json:"today"`
	Tasks       []domain.Task `json:"tasks"`
	Rescheduled int           `json:"rescheduled"`
	Duplicates  []string      `json:"duplicates"`
	Warnings    []string      `json:"warnings"`
}

func planOutput(today domain.Date, result schedule.Result) planJSON {
	out := planJSON{
		Today:       today,
		Tasks:       result.Tasks,
		Rescheduled: len(result.RescheduledTasks),
		Duplicates:  make([]string, 0, len(result.Duplicates)),
		Warnings:    result.Warnings,
	}
	for _, d := range result.Duplicates {
		out.Duplicates = append(out.Duplicates, d.Message)
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return out
}

func printPlan(w io.Writer, today domain.Date, result schedule.Result) {
	byDate := make(map[domain.Date][]domain.Task)
	var dates []domain.Date
	var unscheduled []domain.Task
	for _, task := range result.Tasks {
		if task.Completed {
			continue
		}
		if task.StartDate == nil {
			unscheduled = append(unscheduled, task)
			continue
		}
		if _, seen := byDate[*task.StartDate]; !seen {
			dates = append(dates, *task.StartDate)
		}
		byDate[*task.StartDate] = append(byDate[*task.StartDate], task)
	}
	slices.SortFunc(dates, func(a, b domain.Date) int { return a.Compare(b) })

	fmt.Fprintf(w, "Plan from %s (%d rescheduled)\n", today, len(result.RescheduledTasks))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, date := range dates {
		var hours float64
		for _, task := range byDate[date] {
			hours += task.EstimatedHours
		}
		fmt.Fprintf(tw, "\n%s %s\t%d tasks\t%.1fh\t\n", date, date.Weekday().String()[:3], len(byDate[date]), hours)
		for _, task := range byDate[date] {
			fmt.Fprintf(tw, "  %s\t%s\t%.1fh\t%s\n", task.Title, task.Category, task.EstimatedHours, marker(task))
		}
	}
	_ = tw.Flush()

	if len(unscheduled) > 0 {
		fmt.Fprintln(w, "\nUnscheduled:")
		for _, task := range unscheduled {
			fmt.Fprintf(w, "  %s\n", task.Title)
		}
	}
	if len(result.Duplicates) > 0 || len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
}

func marker(task domain.Task) string {
	switch {
	case task.PinnedDate != nil:
		return "pinned"
	case task.IsRecurring:
		return "recurring"
	case task.DueDate != nil:
		return "due " + task.DueDate.String()
	default:
		return ""
	}
}

func printScored(w io.Writer, scored []schedule.PrioritizedTask) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTASK\tQUADRANT\tBASE\tDEADLINE\tDURATION\tAGE\tREASON")
	for _, p := range scored {
		b := p.Breakdown
		fmt.Fprintf(tw, "%.1f\t%s\t%s\t%.0f\t%.0f\t%.1f\t%.1f\t%s\n",
			p.PriorityScore, p.Task.Title, p.Quadrant, b.Base, b.Deadline, b.Duration, b.Age, p.Reason)
	}
	_ = tw.Flush()
}
