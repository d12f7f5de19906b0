package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/routinely"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of routinely",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("routinely version %s\n", routinely.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
