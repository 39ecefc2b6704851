package client

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/client/migrations"
	"github.com/dmitrijs2005/smartvoyage/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/smartvoyage/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Database is an opened, migrated local store.
type Database struct {
	DB      *sql.DB
	Dialect Dialect
}

func (d *Database) Close() error {
	return d.DB.Close()
}

// Repository binds the dialect's key-value repository to h, which is either
// the database itself or a transaction.
func (d *Database) Repository(h dbx.DBTX) localstore.Repository {
	if d.Dialect == DialectPostgres {
		return localstore.NewPostgresRepository(h)
	}
	return localstore.NewSQLiteRepository(h)
}

// Local returns the repository bound to the database.
func (d *Database) Local() localstore.Repository {
	return d.Repository(d.DB)
}

// WithTx runs fn with a repository bound to one transaction. Commit happens
// when fn returns nil.
func (d *Database) WithTx(ctx context.Context, fn func(ctx context.Context, local localstore.Repository) error) error {
	return dbx.WithTx(ctx, d.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, d.Repository(tx))
	})
}

// DialectFor picks the SQL dialect from the DSN scheme.
func DialectFor(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var (
		gd   goose.Dialect
		fsys fs.FS
		err  error
	)

	switch dialect {
	case DialectPostgres:
		gd = goose.DialectPostgres
		fsys, err = fs.Sub(migrations.Postgres, "postgres")
	case DialectSQLite:
		gd = goose.DialectSQLite3
		fsys, err = fs.Sub(migrations.SQLite, "sqlite")
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func InitDatabase(ctx context.Context, dsn string) (*Database, error) {
	dialect := DialectFor(dsn)

	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		// one writer at a time; concurrent handles would hit SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Database{DB: db, Dialect: dialect}, nil
}
