package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden with -ldflags "-X github.com/lazypower/stayintouch/internal/cli.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stayintouch build",
	Args:  cobra.NoArgs,
	// Skips config loading so version works without a valid environment.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stayintouch %s built %s\n", VersionString(), BuildDate)
	},
}

// VersionString is the short build identifier reported by GET /health.
func VersionString() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
