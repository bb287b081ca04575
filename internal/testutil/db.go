// Package testutil 测试辅助：每个测试一个独立的内存 SQLite 库。
package testutil

import (
	"testing"

	"share-system/config"
	"share-system/pkg/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB 打开已迁移的内存库，测试结束时关闭
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := db.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpen:  1,
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(orm))

	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return orm
}
