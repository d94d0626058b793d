// Command prosperarctl runs DAS-MEI automation jobs and maintenance tasks
// against the configured database without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/app"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/logger"
)

// operador is recorded on guides generated from the command line
const operador = "prosperarctl"

var (
	verbose bool

	log       *zap.Logger
	container *app.Container
)

var rootCmd = &cobra.Command{
	Use:   "prosperarctl",
	Short: "Prosperar operations tool",
	Long: `Runs the DAS-MEI automation and maintenance tasks directly against
the database configured through config.toml and PROSPERAR_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log, err = logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		container, err = app.Build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		return container.Bus.Start(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = logger.Sync(log) }()
		if container == nil {
			return nil
		}
		return container.Close(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(generateCmd, sendCmd, remindersCmd, retryCmd, importClientesCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// printJSON writes v indented to w
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
