package testinfra

import (
	"context"
	"log"
	"os"
	"strings"
	"studioboard/persistence"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

type TestDatabase struct {
	TestDatabaseName string
	DS               *persistence.DataSourceManager
}

// DB returns a gorm session on the test database.
func (d *TestDatabase) DB() *gorm.DB {
	return d.DS.GormDB(context.Background())
}

// StartTestDatabase starts a throwaway database: a private in-memory SQLite
// database by default, or a MySQL database when TEST_MYSQL_SERVICE is set,
// e.g. TEST_MYSQL_SERVICE=root:root@(127.0.0.1:3306)
func StartTestDatabase(baseName string) *TestDatabase {
	databaseName := baseName + "_test_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	mysqlSvc := os.Getenv("TEST_MYSQL_SERVICE")
	var dbConfig *persistence.DatabaseConfig
	if mysqlSvc == "" {
		dbConfig = &persistence.DatabaseConfig{
			DriverType: persistence.DriverSqlite, DriverArgs: "file:" + databaseName + "?mode=memory&cache=shared",
		}
	} else {
		dbConfig = &persistence.DatabaseConfig{
			DriverType: persistence.DriverMysql, DriverArgs: mysqlSvc + "/" + databaseName + "?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
		}
		// create database (no conflict)
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		defer ds.Stop()
		log.Fatalf("database conneciton failed %v\n", err)
	}
	if dbConfig.DriverType == persistence.DriverSqlite {
		// one connection keeps the shared in-memory database alive and serialized
		ds.GormDB(context.Background()).DB().SetMaxOpenConns(1)
	}

	return &TestDatabase{TestDatabaseName: databaseName, DS: ds}
}

func StopTestDatabase(testDatabase *TestDatabase) {
	if testDatabase == nil || testDatabase.DS == nil {
		return
	}
	if testDatabase.DS.DatabaseConfig.DriverType == persistence.DriverMysql && testDatabase.DB() != nil {
		if err := testDatabase.DB().Exec("DROP DATABASE " + testDatabase.TestDatabaseName).Error; err != nil {
			log.Println("failed to drop test database: " + testDatabase.TestDatabaseName)
		} else {
			log.Println("test database " + testDatabase.TestDatabaseName + " dropped")
		}
	}

	// close connection, the in-memory database goes away with it
	testDatabase.DS.Stop()
}
