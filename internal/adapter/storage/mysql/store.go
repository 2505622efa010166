package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/bnema/photobridge/internal/adapter/storage/sqlstore"
	"github.com/bnema/photobridge/internal/port"
)

// Store is the media library kept in a MySQL (or MariaDB) database shared by
// several bridges.
type Store struct {
	*sqlstore.Library
}

// NewStore connects with dsn, e.g. "user:pass@tcp(db:3306)/photos", and
// migrates the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	// Timestamps are stored as unix milliseconds; nothing to parse.
	cfg.ParseTime = false

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := sqlstore.Migrate(db, "mysql"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{Library: sqlstore.New(db)}, nil
}

var _ port.MediaLibrary = (*Store)(nil)
