package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-character-harvester/internal/app"
	"github.com/samvad-hq/samvad-character-harvester/internal/config"
	"github.com/samvad-hq/samvad-character-harvester/internal/logger"
	"github.com/samvad-hq/samvad-character-harvester/pkg/characters"
	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "character: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	baseURL string
	cfg     *config.Config
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "character",
		Short:         "Query the character API and run one-off harvest passes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.baseURL != "" {
				cfg.APIBaseURL = opts.baseURL
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.cfg = cfg
			opts.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "override api_base_url")

	root.AddCommand(newGetCmd(opts), newListCmd(opts), newHarvestCmd(opts))
	return root
}

func (o *rootOptions) api() *characters.API {
	return characters.New(httpclient.NewRestyClient(o.cfg.HTTPTimeout), characters.WithBaseURL(o.cfg.APIBaseURL))
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a single character by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.api().GetCharacterDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch the first page of characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := opts.api().GetCharacterList(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
}

func newHarvestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Run a single harvest pass using the configured providers and publishers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := app.NewHarvester(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			return h.RunOnce(cmd.Context())
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
