package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *options) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Acquire an access token",
		Long:  "Acquire an access token with the configured credentials. The token is masked unless --show is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			tok, err := s.client.Token(ctx)
			if err != nil {
				return err
			}
			if !show {
				tok = mask(tok)
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"access_token": tok})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the full token")
	return cmd
}

// mask keeps the first and last four characters of long tokens.
func mask(tok string) string {
	if len(tok) <= 12 {
		return strings.Repeat("*", len(tok))
	}
	return tok[:4] + strings.Repeat("*", len(tok)-8) + tok[len(tok)-4:]
}
