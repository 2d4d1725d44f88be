package cmd

import (
	"context"
	"fmt"
	"time"

	"artiststudio/core/admin"
	"artiststudio/core/catalog"
	"artiststudio/core/schema"
	"artiststudio/db"
	"artiststudio/logger"
	"artiststudio/repository"
	"artiststudio/storage"

	"github.com/spf13/cobra"
)

var backupList bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export a catalog snapshot to MinIO",
	Long:  `Export every track and category as JSON into the configured MinIO bucket. With --list the stored snapshots are printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()
		ctx := context.Background()

		store, err := storage.NewBackupStore(cfg)
		if err != nil {
			return err
		}

		if backupList {
			objects, err := store.ListSnapshots(ctx)
			if err != nil {
				return err
			}
			for _, o := range objects {
				fmt.Printf("%s\t%d bytes\t%s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
			}
			return nil
		}

		pool, err := db.ConnectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		playCounter, err := schema.Resolve(ctx, cfg.SchemaPlayCounter, repository.NewMySQLSchemaRepository(pool))
		if err != nil {
			return err
		}
		tracks := repository.NewMySQLTrackRepository(pool)
		categories := repository.NewMySQLCategoryRepository(pool)

		snapshot, err := takeSnapshot(ctx,
			admin.NewService(tracks, categories, repository.NewMySQLUserRepository(pool), playCounter),
			catalog.NewService(tracks, categories, playCounter, nil))
		if err != nil {
			return err
		}

		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		key, err := store.PutSnapshot(ctx, snapshot)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot stored as %s/%s\n", cfg.MinioBucket, key)
		return nil
	},
}

func takeSnapshot(ctx context.Context, admins *admin.Service, cat *catalog.Service) (*storage.Snapshot, error) {
	tracks, err := admins.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := cat.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &storage.Snapshot{TakenAt: time.Now(), Tracks: tracks, Categories: categories}, nil
}

func init() {
	backupCmd.Flags().BoolVar(&backupList, "list", false, "list stored snapshots")
	rootCmd.AddCommand(backupCmd)
}
