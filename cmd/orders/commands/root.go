package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/orders-intake/internal/app"
	"github.com/joseph-ayodele/orders-intake/internal/common"
)

var (
	configPath string
	dsn        string
	verbose    bool
	appCtx     *app.App
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orders",
		Short:         "Extract, price and record customer orders from chat messages",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			cfg, err := common.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dsn != "" {
				cfg.Database.DSN = dsn
			}
			appCtx, err = app.New(cmd.Context(), cfg, logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
				appCtx = nil
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("ORDERS_CONFIG"), "YAML config file")
	root.PersistentFlags().StringVar(&dsn, "db", "", "database DSN: postgres:// URL or SQLite path (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(extractCmd(), batchCmd(), exportCmd(), catalogCmd(), migrateCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readInput reads a file path, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}
