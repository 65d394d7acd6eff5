package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

var detectCmd = &cobra.Command{
	Use:   "detect <application>",
	Short: "Detect the frameworks used by an application",
	Long: `Runs one detection over the external code objects of an application.

Each candidate is first looked up on the remote oracle when it is enabled,
then classified locally. Verdicts are merged into the framework catalog
unless persistence is disabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringP("language", "l", "", "Language detector to use (java, cobol, net)")
	_ = detectCmd.MarkFlagRequired("language") //nolint:errcheck // flag exists
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return notConfigured("detection service")
	}

	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("getting language flag: %w", err)
	}

	application := args[0]
	cmd.Printf("Detecting %s frameworks in %s...\n", language, application)

	run, err := detectionService.LaunchDetection(cmd.Context(), application, language)
	if run == nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	printRun(cmd, run)

	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.DetectionRun) {
	cmd.Println()
	cmd.Printf("Run:        %s\n", run.ID)
	cmd.Printf("State:      %s\n", run.State)
	cmd.Printf("Candidates: %d\n", run.Candidates)
	cmd.Printf("Duration:   %s\n", run.Duration())

	counts := make(map[domain.FrameworkType]int)
	for _, o := range run.Outcomes {
		counts[o.Record.Type]++
	}
	verdicts := make([]string, 0, len(counts))
	for t := range counts {
		verdicts = append(verdicts, string(t))
	}
	sort.Strings(verdicts)
	for _, v := range verdicts {
		cmd.Printf("  %-15s %d\n", v, counts[domain.FrameworkType(v)])
	}

	if frameworks := run.DetectedFrameworks(); len(frameworks) > 0 {
		cmd.Println()
		cmd.Printf("Frameworks (%d):\n", len(frameworks))
		for _, name := range frameworks {
			cmd.Printf("  %s\n", name)
		}
	}

	if len(run.Failures) > 0 {
		cmd.Println()
		cmd.Printf("Failures (%d):\n", len(run.Failures))
		for _, f := range run.Failures {
			cmd.Printf("  [%s] %s: %v\n", f.Kind, f.Candidate, f.Err)
		}
	}

	if run.Report != nil && run.Report.Location != "" {
		cmd.Println()
		cmd.Printf("Report written to %s\n", run.Report.Location)
	}
}
