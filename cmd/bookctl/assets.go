package main

import (
	"encoding/json"
	"fmt"
	"io"

	"inkdrop-backend/internal/domains/migration"
	"inkdrop-backend/pkg/container"

	"github.com/spf13/cobra"
)

func migrateAssetsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-assets",
		Short: "Copy legacy book files to the canonical storage backend and rewrite their URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Migration.MigrateAssets(cmd.Context(), migration.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "locate sources without uploading or rewriting")
	return cmd
}

func backfillSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-sizes",
		Short: "Replace unknown book sizes with the real document size",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Migration.BackfillSizes(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}

func purgeCmd() *cobra.Command {
	var (
		backend string
		prefix  string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every object under a prefix on one storage backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to purge %s/%s without --yes", backend, prefix)
			}

			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Migration.Purge(cmd.Context(), backend, prefix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d objects from %s/%s\n", n, backend, prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "storage backend name (minio, s3, local)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object key prefix, e.g. pdfs/")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	_ = cmd.MarkFlagRequired("backend")
	_ = cmd.MarkFlagRequired("prefix")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
