package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/kore/health"
)

// ErrUnhealthy is returned by the health command when any check fails.
var ErrUnhealthy = errors.New("one or more health checks failed")

func newHealthCommand(opts *options) *cobra.Command {
	var (
		slow     time.Duration
		maxQueue int
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check credentials, connectivity and rate limiter state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			agg := health.NewAggregator(health.AggregatorConfig{Timeout: timeout})
			agg.Register(
				health.NewTokenChecker(s.client.Token),
				health.NewEndpointChecker("client", func(ctx context.Context) error {
					_, err := s.client.ClientAPI.Ping(ctx)
					return err
				}, slow),
			)
			for _, rl := range s.client.Limiters() {
				agg.Register(health.NewLimiterChecker(rl, maxQueue))
			}

			reports := agg.CheckAll(ctx)
			overall := health.Overall(reports)

			if opts.json {
				if err := writeJSON(cmd.OutOrStdout(), healthJSON(overall, reports)); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, r := range reports {
					line := fmt.Sprintf("%-18s %-9s %s", r.Name, r.Status, r.Message)
					if r.Error != nil {
						line += ": " + r.Error.Error()
					}
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "overall: %s\n", overall)
			}

			if overall == health.StatusUnhealthy {
				return ErrUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&slow, "slow", time.Second, "latency above which an endpoint is degraded")
	cmd.Flags().IntVar(&maxQueue, "max-queue", 50, "queued requests above which a limiter is degraded")
	cmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "deadline for all checks")
	return cmd
}

type checkJSON struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Error    string         `json:"error,omitempty"`
	Duration string         `json:"duration"`
	Details  map[string]any `json:"details,omitempty"`
}

func healthJSON(overall health.Status, reports []health.Report) any {
	checks := make([]checkJSON, len(reports))
	for i, r := range reports {
		checks[i] = checkJSON{
			Name:     r.Name,
			Status:   r.Status.String(),
			Message:  r.Message,
			Duration: r.Duration.String(),
			Details:  r.Details,
		}
		if r.Error != nil {
			checks[i].Error = r.Error.Error()
		}
	}
	return map[string]any{"status": overall.String(), "checks": checks}
}
