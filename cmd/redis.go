package cmd

import (
	"context"
	"fmt"

	"artiststudio/db"
	"artiststudio/logger"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connect to Redis and run a set/get/delete round trip against it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()
		ctx := context.Background()

		fmt.Printf("Redis: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)
		client, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		fmt.Println("Redis connection OK")

		if err := db.CheckRedis(ctx, client); err != nil {
			return fmt.Errorf("redis round trip failed: %w", err)
		}
		fmt.Println("Redis round trip OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
