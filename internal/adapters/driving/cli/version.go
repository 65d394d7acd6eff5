package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// commit is set at build time next to version.
var commit = ""

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("artemis version %s\n", version)
		if !versionVerbose {
			return
		}
		cmd.Printf("  Commit: %s\n", orNotSet(commit))
		cmd.Printf("  Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Languages: %s\n", strings.Join(domain.SupportedLanguages(), ", "))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionVerbose, "build", false, "show build details")
	rootCmd.AddCommand(versionCmd)
}
