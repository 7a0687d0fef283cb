package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/kore/paging"
	"github.com/jonwraymond/kore/wireless"
)

func newSimsCommand(opts *options) *cobra.Command {
	sims := &cobra.Command{
		Use:   "sims",
		Short: "Work with Programmable Wireless SIMs",
	}
	sims.AddCommand(newSimsListCommand(opts), newSimsGetCommand(opts))
	return sims
}

func newSimsListCommand(opts *options) *cobra.Command {
	var (
		status   string
		iccid    string
		pageSize int
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List SIMs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			filter := wireless.SimFilter{
				Status: wireless.SimStatus(status),
				ICCID:  iccid,
				Params: paging.Params{PageSize: pageSize},
			}

			var items []wireless.Sim
			if all {
				items, err = paging.Collect(s.client.Wireless.AllSims(ctx, filter))
			} else {
				var list *wireless.SimList
				list, err = s.client.Wireless.Sims(ctx, filter)
				if list != nil {
					items = list.Sims
				}
			}
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SID\tSTATUS\tICCID\tUNIQUE NAME")
			for _, sim := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sim.SID, sim.Status, sim.ICCID, sim.UniqueName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (new, ready, active, suspended, ...)")
	cmd.Flags().StringVar(&iccid, "iccid", "", "filter by ICCID")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "items per page (1-100)")
	cmd.Flags().BoolVar(&all, "all", false, "follow next_page_url through every page")
	return cmd
}

func newSimsGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <sid>",
		Short: "Show one SIM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			sim, err := s.client.Wireless.Sim(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sim)
		},
	}
}
