package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		_, history := storesFromFlags(cmd)

		records, err := history.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No history.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  %-10s  %s  %d/%d tasks in %s\n",
				rec.CompletedAt.Format("2006-01-02 15:04"),
				rec.Status,
				rec.RoutineName,
				rec.TasksCompleted,
				rec.TotalTasks,
				formatSeconds(rec.TotalDuration),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum records to show")
}
