package db

import (
	"database/sql"
	"fmt"
	"time"

	"artiststudio/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Schema definitions used only for migrations. Queries go through the
// repository package with plain SQL.

type categoryTable struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	Color       *string `gorm:"type:varchar(20)"`
}

func (categoryTable) TableName() string { return "category" }

type songTable struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Artist      string     `gorm:"type:varchar(255);not null"`
	Duration    *string    `gorm:"type:varchar(20)"`
	Description *string    `gorm:"type:text"`
	CategoryID  *int64     `gorm:"index"`
	IsPublished bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

func (songTable) TableName() string { return "song" }

// songWithPlayCount is the migrated song schema carrying the optional counter.
type songWithPlayCount struct {
	songTable
	PlayCount int64 `gorm:"not null;default:0"`
}

func (songWithPlayCount) TableName() string { return "song" }

type userTable struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"type:varchar(180);not null;uniqueIndex"`
	Password  *string   `gorm:"type:varchar(255)"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	Roles     string    `gorm:"type:json"`
}

func (userTable) TableName() string { return "user" }

// OpenGorm wraps an existing pool so migrations share the application's connections.
func OpenGorm(pool *sql.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: pool}), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}
	return gdb, nil
}

// MigrateSchema creates or extends the category, song and user tables.
// withPlayCount adds song.play_count; without it an existing column is left in place.
func MigrateSchema(pool *sql.DB, withPlayCount bool) error {
	gdb, err := OpenGorm(pool)
	if err != nil {
		return err
	}

	var song interface{} = &songTable{}
	if withPlayCount {
		song = &songWithPlayCount{}
	}
	if err := gdb.AutoMigrate(&categoryTable{}, song, &userTable{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	logger.Info("Schema migrated", logger.Bool("playCount", withPlayCount))
	return nil
}
