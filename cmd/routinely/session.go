package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/routinely/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the persisted session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted session as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _ := storesFromFlags(cmd)

		session, err := store.Load(cmd.Context())
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				fmt.Println("No persisted session.")
				return nil
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the persisted session",
	Long: `Drops the persisted session without archiving it to history. Useful when
a crashed run left state behind that should not be resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _ := storesFromFlags(cmd)
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Session cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
