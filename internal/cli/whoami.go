package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated identity",
	Long: `Show who the configured credentials authenticate as. Useful as a
quick check that TRACKER_API_KEY or app auth is set up correctly.`,
	Args: cobra.NoArgs,
	RunE: whoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func whoami(cmd *cobra.Command, args []string) error {
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	viewer, err := client.Viewer(context.Background())
	if err != nil {
		return err
	}

	opts := renderOpts(cmd)
	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(viewer)
	}
	fmt.Printf("%s (%s)\n", viewer.Name, viewer.ID)
	return nil
}
