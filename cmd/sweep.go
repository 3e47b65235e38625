package main

import (
	"context"
	"encoding/json"
	"os"

	"grooming-waitlist/cmd/bootstrap"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSweepCmd() *cobra.Command {
	var purge bool

	c := &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue offers once and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sweeper commands.SweeperCommands
			return runWith(cmd.Context(), fx.Populate(&sweeper), func(ctx context.Context) error {
				result, err := sweeper.ProcessExpiredOffers(ctx)
				if err != nil {
					return err
				}
				if purge {
					if _, err := sweeper.PurgeIdempotencyKeys(ctx); err != nil {
						return err
					}
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			})
		},
	}

	c.Flags().BoolVar(&purge, "purge-idempotency", false, "also delete expired idempotency keys")
	return c
}

// runWith starts the core graph without HTTP or workers, runs fn and stops the graph.
func runWith(ctx context.Context, populate fx.Option, fn func(ctx context.Context) error) error {
	app := fx.New(
		bootstrap.CoreModule,
		populate,
		fx.NopLogger,
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	return fn(ctx)
}
