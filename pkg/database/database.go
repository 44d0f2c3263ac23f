package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/newsportal/internal/config"
	"github.com/d60-Lab/newsportal/internal/model"
)

// Open 按配置打开数据库。
// TranslateError 打开后唯一键冲突统一落到 gorm.ErrDuplicatedKey
func Open(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
	switch cfg.Database.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.Database.DSN), gcfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Database.DSN), gcfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserInteraction{},
		&model.RecentlyViewed{},
		&model.SearchHistory{},
		&model.ArticleStats{},
	)
}
