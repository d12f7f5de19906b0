package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/routinely"
	"github.com/aretw0/routinely/internal/logging"
	"github.com/aretw0/routinely/pkg/adapters/file"
	redisAdapter "github.com/aretw0/routinely/pkg/adapters/redis"
	"github.com/aretw0/routinely/pkg/notify"
	"github.com/aretw0/routinely/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "routinely",
	Short: "Routinely runs timed task routines",
	Long: `Routinely executes routines: ordered queues of timed tasks that advance
automatically, wait for manual input, or ask for confirmation.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "catalog.yaml", "Path to the YAML catalog of tasks and routines")
	rootCmd.PersistentFlags().String("data-dir", ".routinely", "Directory for session state and history")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for shared state (overrides --data-dir stores)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// buildEngine wires the engine from the persistent flags: YAML catalog plus
// file-backed stores, or Redis-backed stores when --redis is set. The
// history store is returned as well so transports can expose it.
func buildEngine(cmd *cobra.Command, extra ...routinely.Option) (*routinely.Engine, ports.HistoryStore, error) {
	catalogPath, _ := cmd.Flags().GetString("catalog")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	redisAddr, _ := cmd.Flags().GetString("redis")
	level, _ := cmd.Flags().GetString("log-level")

	cat, err := file.LoadCatalog(catalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger := logging.New(logging.ParseLevel(level))
	store, history := buildStores(redisAddr, dataDir)

	opts := append([]routinely.Option{
		routinely.WithLogger(logger),
		routinely.WithSessionStore(store),
		routinely.WithHistoryStore(history),
		routinely.WithNotifier(notify.NewSlog(logger)),
	}, extra...)

	return routinely.New(cat, opts...), history, nil
}

func buildStores(redisAddr, dataDir string) (ports.SessionStore, ports.HistoryStore) {
	if redisAddr != "" {
		rs := redisAdapter.New(redisAddr, "", 0)
		return rs, redisAdapter.NewHistory(rs.Client())
	}
	return file.NewStore(dataDir), file.NewHistory(dataDir)
}

func storesFromFlags(cmd *cobra.Command) (ports.SessionStore, ports.HistoryStore) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	redisAddr, _ := cmd.Flags().GetString("redis")
	return buildStores(redisAddr, dataDir)
}
