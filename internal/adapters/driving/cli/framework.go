package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

var (
	fwInternalType  string
	fwType          string
	fwLocation      string
	fwDescription   string
	fwCategory      string
	fwDiscoveryDate string
	fwScore         float64
	fwDetections    int64
	fwPercentage    float64
	fwLimit         int
	fwJSON          bool
)

var frameworkCmd = &cobra.Command{
	Use:   "framework",
	Short: "Manage the framework catalog",
	Long:  `Add, update and query the records of the framework catalog.`,
}

var frameworkAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a framework to the catalog",
	Long: `Adds a framework record. When a record with the same name and internal
type exists, it is merged and its detection counter is incremented.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrameworkAdd,
}

var frameworkUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a framework of the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkUpdate,
}

var frameworkFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a framework by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkFind,
}

var frameworkContainsCmd = &cobra.Command{
	Use:   "contains <substring>",
	Short: "Find frameworks whose name contains a substring",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkContains,
}

var frameworkBatchCmd = &cobra.Command{
	Use:   "batch <start> <end>",
	Short: "List catalog frameworks in positions [start, end)",
	Args:  cobra.ExactArgs(2),
	RunE:  runFrameworkBatch,
}

var frameworkCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count catalog frameworks",
	Args:  cobra.NoArgs,
	RunE:  runFrameworkCount,
}

var frameworkCandidatesCmd = &cobra.Command{
	Use:   "candidates <application>",
	Short: "Count the candidate objects of an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameworkCandidates,
}

func init() {
	for _, c := range []*cobra.Command{frameworkAddCmd, frameworkUpdateCmd} {
		c.Flags().StringVarP(&fwType, "type", "t", "", "Verdict: FRAMEWORK, NOT_FRAMEWORK or TO_INVESTIGATE")
		c.Flags().StringVar(&fwLocation, "location", "", "Where the framework can be found")
		c.Flags().StringVar(&fwDescription, "description", "", "Free text description")
		c.Flags().StringVar(&fwCategory, "category", "", "Free form grouping")
		c.Flags().StringVar(&fwDiscoveryDate, "discovery-date", "", "Discovery date, yyyy-MM-dd HH:mm:ss")
		c.Flags().Float64Var(&fwScore, "score", 0, "Classifier score between 0 and 1")
		c.Flags().Int64Var(&fwDetections, "detections", 0, "Detection counter")
		c.Flags().Float64Var(&fwPercentage, "percentage", 0, "Share of detection between 0 and 100")
	}
	for _, c := range []*cobra.Command{
		frameworkAddCmd, frameworkUpdateCmd, frameworkFindCmd, frameworkBatchCmd, frameworkCountCmd,
	} {
		c.Flags().StringVarP(&fwInternalType, "internal-type", "i", "", "Internal type tag")
	}
	frameworkContainsCmd.Flags().IntVarP(&fwLimit, "limit", "n", 50, "maximum number of results")
	for _, c := range []*cobra.Command{frameworkFindCmd, frameworkContainsCmd, frameworkBatchCmd} {
		c.Flags().BoolVar(&fwJSON, "json", false, "output results as JSON")
	}
	frameworkCandidatesCmd.Flags().StringP("language", "l", "", "Language detector whose selection to count")
	_ = frameworkCandidatesCmd.MarkFlagRequired("language") //nolint:errcheck // flag exists

	frameworkCmd.AddCommand(frameworkAddCmd)
	frameworkCmd.AddCommand(frameworkUpdateCmd)
	frameworkCmd.AddCommand(frameworkFindCmd)
	frameworkCmd.AddCommand(frameworkContainsCmd)
	frameworkCmd.AddCommand(frameworkBatchCmd)
	frameworkCmd.AddCommand(frameworkCountCmd)
	frameworkCmd.AddCommand(frameworkCandidatesCmd)
	rootCmd.AddCommand(frameworkCmd)
}

func recordFromFlags(name string) (domain.FrameworkRecord, error) {
	t, err := domain.ParseFrameworkType(fwType)
	if err != nil {
		return domain.FrameworkRecord{}, err
	}
	return domain.FrameworkRecord{
		Name:                  name,
		InternalType:          fwInternalType,
		DiscoveryDate:         fwDiscoveryDate,
		Location:              fwLocation,
		Description:           fwDescription,
		Type:                  t,
		Category:              fwCategory,
		NumberOfDetections:    fwDetections,
		PercentageOfDetection: fwPercentage,
		DetectionScore:        fwScore,
	}, nil
}

func runFrameworkAdd(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	record, err := recordFromFlags(args[0])
	if err != nil {
		return err
	}

	saved, err := frameworkService.Add(cmd.Context(), record)
	if err != nil {
		return fmt.Errorf("failed to add framework: %w", err)
	}

	cmd.Printf("Framework saved: %s (%d detections)\n", saved.Name, saved.NumberOfDetections)
	return nil
}

func runFrameworkUpdate(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	record, err := recordFromFlags(args[0])
	if err != nil {
		return err
	}

	saved, err := frameworkService.Update(cmd.Context(), record)
	if err != nil {
		return fmt.Errorf("failed to update framework: %w", err)
	}

	cmd.Printf("Framework updated: %s\n", saved.Name)
	return nil
}

func runFrameworkFind(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	var (
		record *domain.FrameworkRecord
		err    error
	)
	if fwInternalType != "" {
		record, err = frameworkService.FindByNameAndType(cmd.Context(), args[0], fwInternalType)
	} else {
		record, err = frameworkService.FindByName(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if record == nil {
		cmd.Printf("No framework named %s.\n", args[0])
		return nil
	}
	return outputFrameworks(cmd, []domain.FrameworkRecord{*record})
}

func runFrameworkContains(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	records, err := frameworkService.FindNameContains(cmd.Context(), args[0], fwLimit)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	return outputFrameworks(cmd, records)
}

func runFrameworkBatch(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	start, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid start %q: %w", args[0], err)
	}
	end, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid end %q: %w", args[1], err)
	}

	records, err := frameworkService.GetBatch(cmd.Context(), start, end, fwInternalType)
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}
	return outputFrameworks(cmd, records)
}

func runFrameworkCount(cmd *cobra.Command, _ []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	n, err := frameworkService.Count(cmd.Context(), fwInternalType)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	cmd.Println(n)
	return nil
}

func runFrameworkCandidates(cmd *cobra.Command, args []string) error {
	if frameworkService == nil {
		return notConfigured("framework service")
	}

	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("getting language flag: %w", err)
	}

	n, err := frameworkService.CountCandidates(cmd.Context(), args[0], language)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	cmd.Println(n)
	return nil
}

func outputFrameworks(cmd *cobra.Command, records []domain.FrameworkRecord) error {
	if fwJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal frameworks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No frameworks found.")
		return nil
	}

	for i := range records {
		r := &records[i]
		verdict := r.Type.String()
		if verdict == "" {
			verdict = "-"
		}
		cmd.Printf("  %s [%s] %s\n", r.Name, r.InternalType, verdict)
		cmd.Printf("      Detections: %d  Score: %.2f\n", r.NumberOfDetections, r.DetectionScore)
		if r.Location != "" {
			cmd.Printf("      Location: %s\n", r.Location)
		}
		if r.Description != "" {
			cmd.Printf("      %s\n", r.Description)
		}
	}
	return nil
}
