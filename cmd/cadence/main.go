// Command cadence runs the scheduling engine offline against a task file,
// without a database or server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cadence",
		Short:         "Plan start dates and today's focus for a file of tasks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("file", "f", "tasks.yaml", "task file (YAML or JSON)")
	rootCmd.PersistentFlags().String("today", "", "override today's date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA zone that decides today (overrides the file)")
	rootCmd.PersistentFlags().Int("look-ahead", 0, "days the scheduler may look ahead (default 30)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "output as JSON")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(focusCmd())
	rootCmd.AddCommand(scoreCmd())

	return rootCmd
}
