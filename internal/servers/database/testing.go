package database

import (
	"fmt"
	"strings"
	"testing"

	"collabBoard/configs"
	"collabBoard/internal/enums"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// OpenTestDB returns a migrated in-memory sqlite database private to t.
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	v := viper.New()
	v.Set("database.driver", enums.DATABASE_DRIVER_SQLITE)
	v.Set("database.path", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	conn, err := Open(configs.NewConfig(v))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
