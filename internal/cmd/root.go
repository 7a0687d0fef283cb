// Package cmd implements the korectl command line.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/kore"
	"github.com/jonwraymond/kore/config"
	"github.com/jonwraymond/kore/observe"
)

var versionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// SetVersionInfo is called by main with the build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// options are the persistent flags.
type options struct {
	configFile string
	verbose    bool
	json       bool
}

// NewRootCommand builds the korectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "korectl",
		Short:        "Command line client for the KORE Wireless APIs",
		SilenceUsage: true,
		Long: `korectl calls the KORE Wireless REST APIs.

Credentials come from --config or the KORE_CLIENT_ID and
KORE_CLIENT_SECRET environment variables. Either may be a
secretref:env:NAME or secretref:file:PATH reference.`,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		newPingCommand(opts),
		newTokenCommand(opts),
		newSimsCommand(opts),
		newHealthCommand(opts),
		newVersionCommand(),
	)
	return root
}

// session is a configured client and its teardown.
type session struct {
	client *kore.Client
	config *config.Config
	obs    observe.Observer
}

func (s *session) Close(ctx context.Context) {
	_ = s.client.Close()
	if s.obs != nil {
		_ = s.obs.Shutdown(ctx)
	}
}

func (o *options) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(ctx, o.configFile, nil)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Telemetry.Logging.Enabled = true
		cfg.Telemetry.Logging.Level = "debug"
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	client, err := kore.NewClient(cfg.ClientConfig(obs))
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}
	return &session{client: client, config: cfg, obs: obs}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
