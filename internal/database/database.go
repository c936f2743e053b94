/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tschaefer/tether/internal/datasource"
	"github.com/tschaefer/tether/internal/model"
)

type Database struct {
	connection *gorm.DB
	source     *datasource.Source
}

func New(source *datasource.Source) (*Database, error) {
	slog.Debug("Initializing database", "driver", source.Driver, "url", source.Redacted())

	dbcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var connection *gorm.DB
	var err error

	switch source.Driver {
	case "sqlite":
		connection, err = gorm.Open(sqlite.Open(sqlitePath(source)), dbcfg)
	case "postgres":
		dsn, derr := postgresDSN(source)
		if derr != nil {
			return nil, derr
		}
		connection, err = gorm.Open(postgres.Open(dsn), dbcfg)
	default:
		return nil, fmt.Errorf("unsupported datasource driver: %s", source.Driver)
	}
	if err != nil {
		return nil, err
	}

	db := &Database{
		connection: connection,
		source:     source,
	}
	if err := db.tunePool(); err != nil {
		return nil, err
	}

	return db, nil
}

func (d *Database) Connection() *gorm.DB {
	slog.Debug("Retrieving database connection")

	return d.connection
}

func (d *Database) Migrate() error {
	slog.Debug("Migrating database schema")

	return d.connection.AutoMigrate(&model.Instance{})
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.connection.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	slog.Debug("Closing database connection")

	sqlDB, err := d.connection.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Diagnostics returns the driver name and the connection URL with
// user info stripped, the line the env command prints.
func (d *Database) Diagnostics() (string, string) {
	return d.source.Driver, d.source.Redacted()
}

func (d *Database) tunePool() error {
	sqlDB, err := d.connection.DB()
	if err != nil {
		return err
	}

	pool := d.source.Pool
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(pool.MaxLifetime) * time.Second)

	return nil
}

func sqlitePath(source *datasource.Source) string {
	uri, err := url.Parse(source.URL)
	if err != nil {
		return source.URL
	}

	if uri.Path != "" {
		return uri.Path
	}

	// sqlite://:memory: keeps the pseudo path in the host part.
	return uri.Host
}

func postgresDSN(source *datasource.Source) (string, error) {
	uri, err := url.Parse(source.URL)
	if err != nil {
		return "", fmt.Errorf("invalid datasource URL %s: %v", source.URL, err)
	}

	if uri.Host == "" {
		return "", fmt.Errorf("no database target specified in URI: %s", source.URL)
	}

	if uri.User == nil && source.Username != "" {
		if source.Password != "" {
			uri.User = url.UserPassword(source.Username, source.Password)
		} else {
			uri.User = url.User(source.Username)
		}
	}

	return uri.String(), nil
}
