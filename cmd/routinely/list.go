package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/routinely/pkg/adapters/file"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the routines and tasks in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		cat, err := file.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}

		routines, err := cat.Routines()
		if err != nil {
			return err
		}
		for _, r := range routines {
			total := 0
			for _, tid := range r.TaskIDs {
				if t, err := cat.GetTask(tid); err == nil {
					total += t.Duration
				}
			}
			fmt.Printf("%s  %s (%d tasks, %s)\n", r.ID, r.Name, len(r.TaskIDs), formatSeconds(total))
			for _, tid := range r.TaskIDs {
				t, err := cat.GetTask(tid)
				if err != nil {
					fmt.Printf("    %s  (missing)\n", tid)
					continue
				}
				fmt.Printf("    %s  %s [%s, %s]\n", t.ID, t.Name, formatSeconds(t.Duration), t.Mode)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
