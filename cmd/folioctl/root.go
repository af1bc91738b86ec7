package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

const defaultAPIURL = "http://localhost:5000"

// globalOptions are flags shared by the API-facing commands.
type globalOptions struct {
	apiURL string
	apiKey string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "folioctl",
		Short: "Administer the Folio contact API",
		Long: `folioctl manages a Folio contact API deployment.

Available commands:
  hashkey - Generate an admin API key and its Argon2id hash
  migrate - Run embedded PostgreSQL migrations
  submit  - Send a contact message through the API
  list    - List stored messages through the API
  export  - Export all messages from the configured store to XLSX`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "url", envOr("FOLIO_API_URL", defaultAPIURL), "Base URL of the contact API")
	root.PersistentFlags().StringVar(&opts.apiKey, "key", os.Getenv("FOLIO_ADMIN_KEY"), "Admin API key for protected routes")

	root.AddCommand(
		newHashKeyCmd(),
		newMigrateCmd(),
		newSubmitCmd(opts),
		newListCmd(opts),
		newExportCmd(),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
