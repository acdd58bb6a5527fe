package persistence

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

const (
	DriverMysql  = "mysql"
	DriverSqlite = "sqlite3"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
	LogSQL     bool
}

func (c *DatabaseConfig) Validate() error {
	switch c.DriverType {
	case DriverMysql, DriverSqlite:
	default:
		return errors.New("unsupported database driver '" + c.DriverType + "'")
	}
	if strings.TrimSpace(c.DriverArgs) == "" {
		return errors.New("database driver args is empty")
	}
	return nil
}

// PrepareMysqlDatabase creates the database named in dsn when it is missing.
func PrepareMysqlDatabase(dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return err
	}
	databaseName := cfg.DBName
	if databaseName == "" {
		return errors.New("database name is missing in dsn")
	}
	cfg.DBName = ""

	db, err := sql.Open(DriverMysql, cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.Warnf("failed to close bootstrap connection: %v", err)
		}
	}()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	if err != nil {
		return err
	}
	logrus.Infof("database %s is ready", databaseName)
	return nil
}
