package main

import (
	"os"

	"inkdrop-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	rootCmd := &cobra.Command{
		Use:          "bookctl",
		Short:        "Operator tools for the InkDrop library",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateAssetsCmd())
	rootCmd.AddCommand(backfillSizesCmd())
	rootCmd.AddCommand(purgeCmd())
	rootCmd.AddCommand(dbCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
