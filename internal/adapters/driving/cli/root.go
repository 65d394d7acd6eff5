// Package cli provides the cobra command line interface for Artemis.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/core/ports/driving"
	"github.com/custodia-labs/artemis/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Background runs next to the MCP server while it serves.
type Background interface {
	Start(ctx context.Context) error
	Stop() error
}

// Services holds the driving ports the commands call.
type Services struct {
	Detection  driving.DetectionService
	Frameworks driving.FrameworkService
	Oracle     driving.OracleService
	Settings   driving.SettingsService

	// Metrics is mounted at /metrics when serving over HTTP. Optional.
	Metrics http.Handler

	// Scheduler runs periodic tasks while serving. Optional.
	Scheduler Background

	// ConfigErr is why the services above could not be built, if known.
	ConfigErr error
}

var (
	detectionService driving.DetectionService
	frameworkService driving.FrameworkService
	oracleService    driving.OracleService
	settingsService  driving.SettingsService
	metricsHandler   http.Handler
	scheduler        Background
	configErr        error
)

var rootCmd = &cobra.Command{
	Use:   "artemis",
	Short: "Detect the frameworks an application depends on",
	Long: `Artemis inspects the code objects of an analysed application, decides
for each external object whether it belongs to a framework, and keeps a
catalog of the frameworks it has seen.

Verdicts come from the remote oracle when it knows the object, and from
a text classifier trained on a bundled corpus otherwise.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose { //nolint:errcheck // flag is registered below
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// SetServices injects the driving ports used by the commands.
func SetServices(s Services) {
	detectionService = s.Detection
	frameworkService = s.Frameworks
	oracleService = s.Oracle
	settingsService = s.Settings
	metricsHandler = s.Metrics
	scheduler = s.Scheduler
	configErr = s.ConfigErr
}

// notConfigured reports a missing service, wrapping the configuration
// error that prevented building it.
func notConfigured(service string) error {
	if configErr != nil {
		return fmt.Errorf("%s not configured: %w", service, configErr)
	}
	return errors.New(service + " not configured")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
