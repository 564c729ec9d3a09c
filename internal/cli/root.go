package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trk",
	Short: "trk - Comment threads on tracker issues",
	Long: `trk reads and mutates comment threads on tracker issues over the
tracker's GraphQL API.

Example:
  trk issues comments ENG-123
  trk issues comments add ENG-123 "Looks good" --reply-to last
  trk issues comment resolve cmt_abc123`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON instead of text")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Print only comment IDs for changed operations")
}
