package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/stayintouch/internal/config"
)

var (
	cfg      config.Config
	logger   *slog.Logger
	envFiles []string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "stayintouch",
	Short: "Reminders to keep in touch with the people you care about",
	Long: "StayInTouch tracks contacts, birthdays and how often you want to reach out, " +
		"and tells you who needs attention. Run without a subcommand to send today's reminders.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runReminders,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// setup loads configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = newLogger(cfg, logJSON)
	slog.SetDefault(logger)
	return nil
}

func newLogger(c config.Config, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	remindersCmd.Flags().BoolVar(&remindersDryRun, "dry-run", false, "Print the digest instead of sending it")
	rootCmd.Flags().BoolVar(&remindersDryRun, "dry-run", false, "Print the digest instead of sending it")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(testEmailCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(calendarCmd)
}
