package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var oracleSince string

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Query and synchronise the remote oracle",
	Long: `Commands for the remote framework oracle. The oracle must be enabled
with 'artemis settings set oracle.enabled true' and an oracle.url.`,
}

var oraclePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the oracle answers",
	Args:  cobra.NoArgs,
	RunE:  runOraclePing,
}

var oracleLastUpdateCmd = &cobra.Command{
	Use:   "last-update",
	Short: "Show when the remote catalog last changed",
	Args:  cobra.NoArgs,
	RunE:  runOracleLastUpdate,
}

var oraclePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the catalog",
	Long: `Pulls the remote changes made since the last completed pull and merges
them into the catalog.

With --since the changes made after the given RFC 3339 time are listed
without touching the catalog.`,
	Args: cobra.NoArgs,
	RunE: runOraclePull,
}

var oracleForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Count remote changes not yet pulled",
	Args:  cobra.NoArgs,
	RunE:  runOracleForecast,
}

var oracleFindCmd = &cobra.Command{
	Use:   "find <name> <internal-type>",
	Short: "Look up one framework on the oracle",
	Args:  cobra.ExactArgs(2),
	RunE:  runOracleFind,
}

var oracleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the oracle connection status",
	Args:  cobra.NoArgs,
	RunE:  runOracleStatus,
}

func init() {
	oraclePullCmd.Flags().StringVar(&oracleSince, "since", "", "list changes after this RFC 3339 time")

	oracleCmd.AddCommand(oraclePingCmd)
	oracleCmd.AddCommand(oracleLastUpdateCmd)
	oracleCmd.AddCommand(oraclePullCmd)
	oracleCmd.AddCommand(oracleForecastCmd)
	oracleCmd.AddCommand(oracleFindCmd)
	oracleCmd.AddCommand(oracleStatusCmd)
	rootCmd.AddCommand(oracleCmd)
}

func runOraclePing(cmd *cobra.Command, _ []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	if !oracleService.Ping(cmd.Context()) {
		return errors.New("oracle is not reachable")
	}
	cmd.Println("Oracle is reachable.")
	return nil
}

func runOracleLastUpdate(cmd *cobra.Command, _ []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	last, err := oracleService.LastUpdate(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get last update: %w", err)
	}
	cmd.Println(formatTimestamp(last))
	return nil
}

func runOraclePull(cmd *cobra.Command, _ []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	if oracleSince != "" {
		since, err := time.Parse(time.RFC3339, oracleSince)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
		records, err := oracleService.Pull(cmd.Context(), since)
		if err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		return outputFrameworks(cmd, records)
	}

	cmd.Println("Pulling oracle changes...")
	snapshot, err := oracleService.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	cmd.Printf("Pulled %d records (remote last update %s).\n", len(snapshot.Pulled), formatTimestamp(snapshot.LastUpdate))
	if snapshot.PendingCount > 0 {
		cmd.Printf("%d changes are still pending.\n", snapshot.PendingCount)
	}
	return nil
}

func runOracleForecast(cmd *cobra.Command, _ []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	n, err := oracleService.ForecastPendingCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}
	cmd.Println(n)
	return nil
}

func runOracleFind(cmd *cobra.Command, args []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	record, err := oracleService.FindRemote(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if record == nil {
		cmd.Printf("The oracle does not know %s.\n", args[0])
		return nil
	}
	cmd.Printf("%s [%s] %s\n", record.Name, record.InternalType, record.Type)
	if record.Location != "" {
		cmd.Printf("  Location: %s\n", record.Location)
	}
	if record.Description != "" {
		cmd.Printf("  %s\n", record.Description)
	}
	return nil
}

func runOracleStatus(cmd *cobra.Command, _ []string) error {
	if oracleService == nil {
		return notConfigured("oracle service")
	}

	status, err := oracleService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get oracle status: %w", err)
	}

	cmd.Println("Oracle Status")
	cmd.Println("=============")
	if !status.Enabled {
		cmd.Println("  Enabled: no")
		return nil
	}
	cmd.Println("  Enabled: yes")
	if status.Reachable {
		cmd.Println("  Reachable: yes")
	} else {
		cmd.Println("  Reachable: no")
	}
	cmd.Printf("  Last update: %s\n", formatTimestamp(status.LastUpdate))
	cmd.Printf("  Last pull: %s\n", formatTimestamp(status.Watermark))
	cmd.Printf("  Pending: %d\n", status.Pending)
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
