package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"workshop/internal/bootstrap"
	"workshop/internal/infra"
)

// options holds the flags shared by every command.
type options struct {
	file    string
	request requestFlags
	compact bool
	useEnv  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "furnictl",
		Short: "Configure, quote and lay out custom furniture from the command line",
		Long: `furnictl runs the furniture engine locally.

A request is read from a JSON file (--file, "-" for stdin) or assembled from
flags. Flags override fields of the file.

Examples:
  furnictl layout --type kitchen --length 300 --width 60 --height 240 --material wood --color white --style rustic --doors 4 --drawers 2
  furnictl quote -f request.json
  furnictl recommend -f request.json
  furnictl image-status 6a2b9c1e-0000-0000-0000-000000000000`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.useEnv {
				_ = godotenv.Load()
			}
		},
	}
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "Print compact JSON")
	root.PersistentFlags().BoolVar(&opts.useEnv, "env", true, "Load .env before reading configuration")

	root.AddCommand(
		newLayoutCmd(opts),
		newQuoteCmd(opts),
		newRecommendCmd(opts),
		newImageStatusCmd(opts),
	)
	return root
}

func addRequestFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `JSON request file, "-" reads stdin`)
	opts.request.register(cmd)
}

// engine builds the engine from the environment. Local-only commands strip
// the external providers first.
func (o *options) engine(ctx context.Context, localOnly bool) (*bootstrap.Engine, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	if localOnly {
		cfg.Providers.TextProvider = infra.TextProviderNone
		cfg.Providers.ImagesEnabled = false
		cfg.Providers.ReplicateAPIToken = ""
	}
	logger := infra.NewLogger("cli")
	return bootstrap.Build(ctx, cfg, &logger)
}

func (o *options) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
