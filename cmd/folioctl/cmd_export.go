package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/folio/folio/internal/config"
	"github.com/folio/folio/internal/export"
	"github.com/folio/folio/internal/model"
	"github.com/folio/folio/internal/store"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all messages from the configured store to XLSX",
		Long: `Read every stored message directly from the store selected by
DATABASE_URL and write them, newest first, to an XLSX workbook.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}

			cfg, err := loadReadOnlyConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			opened, err := store.Open(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer opened.Close(ctx)

			if opened.InMemory {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: DATABASE_URL is not set; the in-memory store is empty")
			}

			contacts, err := opened.Store.ListContacts(ctx, model.ContactListOptions{})
			if err != nil {
				return fmt.Errorf("list contacts: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteXLSX(f, contacts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d message(s) to %s\n", len(contacts), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path")
	return cmd
}

// loadReadOnlyConfig loads the server configuration for commands that only
// read the store. Migrations are left to the server and `folioctl migrate`.
func loadReadOnlyConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.RunMigrations = false
	return cfg, nil
}
