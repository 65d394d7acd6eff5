package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the graph database, classifier, oracle, storage and
notification settings.

Settings are stored in ~/.artemis/config.toml and can be overridden with
ARTEMIS_* environment variables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a setting",
	Long: `Set one setting by key, for example:

  artemis settings set graph.uri neo4j://localhost:7687
  artemis settings set oracle.enabled true

When the value is omitted it is read from standard input. Credentials
such as graph.password are read without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Detection]")
	cmd.Printf("  Persistence: %s\n", yesNo(settings.PersistenceEnabled))
	cmd.Printf("  Confidence threshold: %.2f\n", settings.Classifier.ConfidenceThreshold)
	if settings.Classifier.CorpusDir != "" {
		cmd.Printf("  Corpus: %s\n", settings.Classifier.CorpusDir)
	} else {
		cmd.Println("  Corpus: (embedded)")
	}
	cmd.Println()

	cmd.Println("[Graph]")
	cmd.Printf("  URI: %s\n", orNotSet(settings.Graph.URI))
	cmd.Printf("  Username: %s\n", orNotSet(settings.Graph.Username))
	cmd.Printf("  Password: %s\n", secret(settings.Graph.Password))
	if settings.Graph.Database != "" {
		cmd.Printf("  Database: %s\n", settings.Graph.Database)
	}
	cmd.Printf("  Object label: %s\n", settings.Graph.Schema.ObjectLabel)
	cmd.Println()

	cmd.Println("[Model]")
	cmd.Printf("  Store: %s\n", settings.Model.Store)
	if settings.Model.Store == domain.ModelStoreS3 {
		cmd.Printf("  Endpoint: %s\n", orNotSet(settings.Model.S3.Endpoint))
		cmd.Printf("  Bucket: %s\n", orNotSet(settings.Model.S3.Bucket))
		cmd.Printf("  Access key: %s\n", orNotSet(settings.Model.S3.AccessKey))
		cmd.Printf("  Secret key: %s\n", secret(settings.Model.S3.SecretKey))
	} else {
		cmd.Printf("  Directory: %s\n", settings.Model.Dir)
	}
	cmd.Println()

	cmd.Println("[Oracle]")
	if settings.Oracle.Enabled {
		cmd.Println("  Enabled: yes")
		cmd.Printf("  URL: %s\n", orNotSet(settings.Oracle.URL))
		cmd.Printf("  Token: %s\n", secret(settings.Oracle.Token))
		cmd.Printf("  Timeout: %s\n", settings.Oracle.Timeout)
		cmd.Printf("  Rate: %.1f/s\n", settings.Oracle.RatePerSecond)
		cmd.Printf("  Attempts: %d\n", settings.Oracle.Retry.Attempts())
		if settings.Oracle.SyncInterval > 0 {
			cmd.Printf("  Sync every: %s\n", settings.Oracle.SyncInterval)
		}
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data directory: %s\n", orNotSet(settings.Storage.DataDir))
	cmd.Printf("  Reports: %s\n", orNotSet(settings.Report.Dir))
	cmd.Println()

	cmd.Println("[Mail]")
	if settings.Mail.Enabled {
		cmd.Println("  Enabled: yes")
		cmd.Printf("  Server: %s:%d\n", settings.Mail.Host, settings.Mail.Port)
		cmd.Printf("  Password: %s\n", secret(settings.Mail.Password))
		cmd.Printf("  Recipients: %s\n", strings.Join(settings.Mail.Recipients, ", "))
	} else {
		cmd.Println("  Enabled: no")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("Enter %s: ", key)
		if settingsService.IsSecret(key) {
			value = readPassword()
			cmd.Println()
		} else {
			value = readLine(bufio.NewReader(os.Stdin))
		}
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if settingsService.IsSecret(key) {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)

	if _, err := settingsService.Get(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// Helper functions.

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func secret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return maskAPIKey(s)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
