// Command explore queries the police API from the terminal: list forces,
// list a force's neighbourhoods, or aggregate one neighbourhood.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/EmpoweredVote/police-explorer/internal/config"
	"github.com/EmpoweredVote/police-explorer/internal/logger"
	"github.com/EmpoweredVote/police-explorer/internal/neighbourhood"
	"github.com/EmpoweredVote/police-explorer/internal/police"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	parallel       bool
	strictBoundary bool
	rawAggregate   bool
)

var rootCmd = &cobra.Command{
	Use:           "explore",
	Short:         "Explore UK police neighbourhood data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var forcesCmd = &cobra.Command{
	Use:   "forces",
	Short: "List every police force",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, _, err := setup()
		if err != nil {
			return err
		}
		forces, err := client.Forces(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), forces)
	},
}

var neighbourhoodsCmd = &cobra.Command{
	Use:   "neighbourhoods <force>",
	Short: "List the neighbourhoods of a force",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, _, err := setup()
		if err != nil {
			return err
		}
		list, err := client.Neighbourhoods(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), list)
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <force> <neighbourhood>",
	Short: "Fetch and aggregate everything about one neighbourhood",
	Args:  cobra.ExactArgs(2),
	RunE:  runAggregate,
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, client, log, err := setup()
	if err != nil {
		return err
	}

	policy, err := neighbourhood.ParseEmptyBoundaryPolicy(cfg.EmptyBoundaryPolicy)
	if err != nil {
		return err
	}
	if strictBoundary {
		policy = neighbourhood.EmptyBoundaryStrict
	}
	agg, err := neighbourhood.NewAggregator(client,
		neighbourhood.WithEmptyBoundaryPolicy(policy),
		neighbourhood.WithParallelFetch(parallel || cfg.ParallelFetch),
		neighbourhood.WithLogger(log.Named("neighbourhood")),
	).Aggregate(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	if rawAggregate {
		return printJSON(cmd.OutOrStdout(), agg)
	}
	return printJSON(cmd.OutOrStdout(), neighbourhood.NewView(agg))
}

// setup builds a client from the same configuration as the server.
func setup() (config.Config, *police.Client, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	client := police.NewClient(cfg.PoliceAPIBaseURL,
		police.WithTimeout(cfg.PoliceAPITimeout),
		police.WithLogger(log.Named("police")))
	return cfg, client, log, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	aggregateCmd.Flags().BoolVar(&parallel, "parallel", false, "fetch team and events concurrently")
	aggregateCmd.Flags().BoolVar(&strictBoundary, "strict-boundary", false, "fail when the neighbourhood has no boundary")
	aggregateCmd.Flags().BoolVar(&rawAggregate, "raw", false, "print the unsanitized aggregate instead of the view")

	rootCmd.AddCommand(forcesCmd, neighbourhoodsCmd, aggregateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
