// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"runwrap/internal/api"
	"runwrap/internal/logger"
	"runwrap/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server for runwrap",
	Long:  `Starts an HTTP server that serves the runwrap web UI and API.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWebServer()
	},
}

// runWebServer starts the HTTP server for the web UI.
func runWebServer() {
	// The SSH manager is already initialized in PersistentPreRunE of rootCmd

	router := mux.NewRouter()

	api.RegisterProjectRoutes(router)
	api.RegisterWrapperRoutes(router)
	api.RegisterHostRoutes(router)

	// Static assets must be registered after API routes to avoid conflicts
	staticFileServer := http.FileServer(web.GetFileSystem())
	router.PathPrefix("/").Handler(staticFileServer)

	statusColor.Printf("Serving runwrap on http://%s\n", serveAddr)
	logger.Info("Web server starting", "addr", serveAddr)

	if err := http.ListenAndServe(serveAddr, router); err != nil {
		errorColor.Fprintf(os.Stderr, "Web server failed: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8675", "address to listen on")
}
