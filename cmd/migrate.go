package cmd

import (
	"context"

	"artiststudio/config"
	"artiststudio/db"
	"artiststudio/logger"

	"github.com/spf13/cobra"
)

var (
	migratePlayCount bool
	migrateSeed      bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the song, category and user tables. With --play-count the
optional song.play_count column is added. With --seed the default genres and,
when SEED_ADMIN_PASSWORD is set, an administrator account are inserted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()
		ctx := context.Background()

		if !cmd.Flags().Changed("play-count") {
			migratePlayCount = cfg.SchemaPlayCounter != config.PlayCounterOff
		}

		pool, err := db.ConnectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.MigrateSchema(pool, migratePlayCount); err != nil {
			return err
		}
		if migrateSeed {
			if err := db.SeedDefaults(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
				return err
			}
		}
		logger.Info("Migration finished",
			logger.Bool("playCount", migratePlayCount),
			logger.Bool("seed", migrateSeed))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migratePlayCount, "play-count", true, "add the song.play_count column")
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert default categories and the seed administrator")
	rootCmd.AddCommand(migrateCmd)
}
