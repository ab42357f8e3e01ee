package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	Long: `Start the HTTP API backing the dashboard: inbox, analytics and
actions endpoints under /api, plus a confirmation-gated database
clear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = settings.ListenAddr
		}

		server := api.New(store, newCategorizer(), newSummarizer(), newResponder(), newExtractor(), log)
		log.Info().Str("addr", addr).Msg("dashboard API listening")
		fmt.Printf("Dashboard API on %s\n", addr)
		return http.ListenAndServe(addr, server.Router())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
