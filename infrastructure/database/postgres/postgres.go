package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
)

const uniqueViolationCode = "23505"

var dialect = database.Dialect{
	Name:              config.DatabaseDriverPostgres,
	Placeholder:       squirrel.Dollar,
	IsUniqueViolation: isUniqueViolation,
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ad_credentials (
		tenant_id           VARCHAR(64) PRIMARY KEY,
		platform            VARCHAR(32) NOT NULL,
		access_token        TEXT NOT NULL,
		refresh_token       TEXT NOT NULL DEFAULT '',
		expiry              TIMESTAMPTZ NULL,
		selected_account_id VARCHAR(64) NOT NULL DEFAULT '',
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS report_definitions (
		id          VARCHAR(64) PRIMARY KEY,
		tenant_id   VARCHAR(64) NOT NULL,
		weekday     VARCHAR(16) NOT NULL,
		time_of_day VARCHAR(5) NOT NULL,
		recipients  TEXT NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_definitions_time ON report_definitions (time_of_day) WHERE active`,
	`CREATE TABLE IF NOT EXISTS report_send_log (
		id              VARCHAR(32) PRIMARY KEY,
		report_id       VARCHAR(64) NOT NULL,
		tenant_id       VARCHAR(64) NOT NULL,
		weekday         VARCHAR(16) NOT NULL,
		time_of_day     VARCHAR(5) NOT NULL,
		occurrence_date VARCHAR(10) NOT NULL,
		status          VARCHAR(16) NOT NULL,
		sent_at         TIMESTAMPTZ NULL,
		recipient_count INTEGER NOT NULL DEFAULT 0,
		failed_count    INTEGER NOT NULL DEFAULT 0,
		message         TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (report_id, weekday, time_of_day, occurrence_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_send_log_report ON report_send_log (report_id, created_at DESC)`,
}

type Connection struct {
	*sql.DB
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
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

	logrus.WithField("migrations", len(migrations)).Info("Migrações do Postgres aplicadas")
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
