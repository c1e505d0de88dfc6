package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens a gorm connection for the configured driver. MySQL is the
// production store; sqlite backs the test suite and local development.
// TranslateError lets callers match gorm.ErrDuplicatedKey regardless of
// driver.
func Connect(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}
