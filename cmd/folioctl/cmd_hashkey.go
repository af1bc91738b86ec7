package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio/folio/internal/auth"
)

func newHashKeyCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "hashkey",
		Short: "Generate an admin API key and its Argon2id hash",
		Long: `Generate a new admin API key.

The plaintext key is shown once. Store the hash in ADMIN_API_KEY_HASH on the
server and hand the key to whoever reads the inbox.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			generated, err := auth.GenerateKey(env)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key:    %s\n", generated.Plaintext)
			fmt.Fprintf(out, "Prefix: %s\n", generated.Prefix)
			fmt.Fprintf(out, "\nADMIN_API_KEY_HASH='%s'\n", generated.Hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", auth.EnvLive, "Key environment: live or test")
	return cmd
}
