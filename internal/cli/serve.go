package cli

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/cexll/trk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only thread API over HTTP",
	Long: `Serve GET /issues/{identifier}/comments and GET /health on the
configured port.

Example:
  trk serve
  trk serve --port 9090`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Listen port (default: PORT env or 8000)")
}

func serve(cmd *cobra.Command, args []string) error {
	client, cfg, err := newBackend()
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Port
	}

	router := mux.NewRouter()
	server.NewHandler(client, cfg.EmbeddedCommentLimit).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("[Server] Listening on :%d", port)
	return srv.ListenAndServe()
}
