package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio/folio/internal/client"
	"github.com/folio/folio/internal/handler/dto"
)

func newSubmitCmd(opts *globalOptions) *cobra.Command {
	var req dto.CreateContactRequest

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a contact message through the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.apiURL)

			summary, err := c.Submit(cmd.Context(), req)
			fmt.Fprintln(cmd.OutOrStdout(), client.StatusText(err))
			if err != nil {
				return errReported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", summary.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Sender name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Sender email")
	cmd.Flags().StringVar(&req.Message, "message", "", "Message body")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored messages through the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(opts.apiURL, client.WithAPIKey(opts.apiKey))

			contacts, err := c.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRECEIVED\tNAME\tEMAIL\tMESSAGE")
			for _, m := range contacts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					m.ID,
					m.CreatedAt.UTC().Format(time.RFC3339),
					m.Name,
					m.Email,
					preview(m.Message, 40),
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d message(s)\n", len(contacts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of messages (0 lists all)")
	return cmd
}

// preview flattens msg to one line and truncates it to n runes.
func preview(msg string, n int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	runes := []rune(msg)
	if len(runes) <= n {
		return msg
	}
	return string(runes[:n-1]) + "…"
}
