package main

import (
	"fmt"
	"os"

	"grooming-waitlist/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var (
		dir       string
		atlasPath string
		dryRun    bool
	)

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations with the atlas CLI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
			if err != nil {
				return fmt.Errorf("prepare migration dir: %w", err)
			}
			defer func() { _ = workdir.Close() }()

			client, err := atlasexec.NewClient(workdir.Path(), atlasPath)
			if err != nil {
				return fmt.Errorf("init atlas client: %w", err)
			}

			res, err := client.MigrateApply(cmd.Context(), &atlasexec.MigrateApplyParams{
				URL:    cfg.DB.BuildDSN(),
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			fmt.Fprintf(os.Stdout, "applied %d migration(s), now at version %q\n", len(res.Applied), res.Target)
			return nil
		},
	}

	c.Flags().StringVar(&dir, "dir", "migrations", "migration directory")
	c.Flags().StringVar(&atlasPath, "atlas", "atlas", "path to the atlas binary")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print pending statements without applying them")
	return c
}
