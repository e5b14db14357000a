package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	_ "modernc.org/sqlite"
)

const MemoryDSN = ":memory:"

var dialect = database.Dialect{
	Name:              config.DatabaseDriverSQLite,
	Placeholder:       squirrel.Question,
	IsUniqueViolation: isUniqueViolation,
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ad_credentials (
		tenant_id           TEXT PRIMARY KEY,
		platform            TEXT NOT NULL,
		access_token        TEXT NOT NULL,
		refresh_token       TEXT NOT NULL DEFAULT '',
		expiry              TIMESTAMP NULL,
		selected_account_id TEXT NOT NULL DEFAULT '',
		updated_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS report_definitions (
		id          TEXT PRIMARY KEY,
		tenant_id   TEXT NOT NULL,
		weekday     TEXT NOT NULL,
		time_of_day TEXT NOT NULL,
		recipients  TEXT NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_definitions_time ON report_definitions (time_of_day)`,
	`CREATE TABLE IF NOT EXISTS report_send_log (
		id              TEXT PRIMARY KEY,
		report_id       TEXT NOT NULL,
		tenant_id       TEXT NOT NULL,
		weekday         TEXT NOT NULL,
		time_of_day     TEXT NOT NULL,
		occurrence_date TEXT NOT NULL,
		status          TEXT NOT NULL CHECK(status IN ('pending', 'sent')),
		sent_at         TIMESTAMP NULL,
		recipient_count INTEGER NOT NULL DEFAULT 0,
		failed_count    INTEGER NOT NULL DEFAULT 0,
		message         TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (report_id, weekday, time_of_day, occurrence_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_send_log_report ON report_send_log (report_id, created_at)`,
}

// Connection envolve um banco SQLite (driver puro Go, sem cgo)
type Connection struct {
	*sql.DB
}

func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	return New(ctx, cfg.DSN)
}

func New(ctx context.Context, dataSourceName string) (*Connection, error) {
	if dataSourceName != MemoryDSN {
		if dir := filepath.Dir(dataSourceName); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("erro ao criar diretório do banco: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco sqlite: %w", err)
	}

	// Uma única conexão: serializa escritas e mantém o mesmo banco em memória
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao habilitar foreign keys: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao configurar busy_timeout: %w", err)
	}

	return &Connection{DB: db}, nil
}

func (c *Connection) Dialect() database.Dialect {
	return dialect
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate cria as tabelas do despacho caso ainda não existam
func (c *Connection) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := c.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao executar migração %d: %w", i+1, err)
		}
	}

	logrus.WithField("migrations", len(migrations)).Debug("Migrações do SQLite aplicadas")
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
