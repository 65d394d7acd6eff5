package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/adapters/driving/mcp"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier of a language",
	Long: `Trains the text classifier of a language from its corpus and stores the
model. Without --force an existing model that matches the corpus is reused.

With --watch the command keeps running and retrains a language every time
its corpus directory changes.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringP("language", "l", "", "Language whose model to train")
	trainCmd.Flags().BoolP("force", "f", false, "Retrain even when a model is available")
	trainCmd.Flags().BoolP("watch", "w", false, "Retrain when the corpus changes")
	_ = trainCmd.MarkFlagRequired("language") //nolint:errcheck // flag exists
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if detectionService == nil {
		return notConfigured("detection service")
	}

	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("getting language flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("getting force flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	elapsed, err := detectionService.TrainModel(cmd.Context(), language, force)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	cmd.Println(mcp.TrainedMessage(elapsed))

	if !watch {
		return nil
	}

	cmd.Println("Watching corpus for changes. Press Ctrl+C to stop.")
	return detectionService.WatchCorpus(cmd.Context(), func(lang string, elapsed time.Duration, err error) {
		if err != nil {
			cmd.PrintErrf("Retraining %s failed: %v\n", lang, err)
			return
		}
		cmd.Printf("[%s] %s\n", lang, mcp.TrainedMessage(elapsed))
	})
}
