package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cexll/trk/internal/config"
	"github.com/cexll/trk/internal/render"
	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

// newBackend loads configuration and returns a connected tracker client.
func newBackend() (*tracker.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var auth tracker.AuthProvider
	if cfg.UseAppAuth() {
		auth = &tracker.AppAuth{
			AppID:      cfg.AppID,
			PrivateKey: cfg.PrivateKey,
			TokenURL:   cfg.TokenURL,
		}
	} else {
		auth = &tracker.TokenAuth{Key: cfg.APIKey}
	}
	return tracker.NewClient(cfg.Endpoint, auth), cfg, nil
}

// newCoordinator wires the mutation coordinator for CLI use: piped stdin
// feeds comment bodies, a terminal stdin enables the delete prompt.
func newCoordinator(backend thread.Backend) *thread.Coordinator {
	coord := thread.NewCoordinator(backend)
	if stdinIsTTY() {
		coord.Confirm = confirmDelete(os.Stdin, os.Stderr)
	} else {
		coord.Input = os.Stdin
	}
	return coord
}

func renderOpts(cmd *cobra.Command) render.Options {
	asJSON, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return render.Options{JSON: asJSON, Quiet: quiet}
}

func stdinIsTTY() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// confirmDelete prompts on out and reads a yes/no answer from in.
// Anything but an explicit yes declines.
func confirmDelete(in io.Reader, out io.Writer) func(c *thread.CommentRecord) (bool, error) {
	return func(c *thread.CommentRecord) (bool, error) {
		fmt.Fprintf(out, "Delete comment %s by %s? [y/N] ", c.ID, c.Author)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
