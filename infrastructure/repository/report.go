package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

const reportsTable = "report_definitions"

// ReportRepository lê as definições de relatório mantidas pelo front end.
// Save existe para ferramentas administrativas e testes.
type ReportRepository interface {
	ListDue(ctx context.Context, slot domain.Slot) ([]*domain.ReportDefinition, error)
	GetByID(ctx context.Context, reportID string) (*domain.ReportDefinition, error)
	Save(ctx context.Context, report *domain.ReportDefinition) error
}

type reportRepository struct {
	conn database.Conn
}

func NewReportRepository(conn database.Conn) ReportRepository {
	return &reportRepository{
		conn: conn,
	}
}

// ListDue devolve as definições ativas cujo (dia, horário) coincide com o slot.
// O horário é filtrado no banco e o dia da semana em Go, pois os rótulos
// gravados podem ter acento ou sufixo "-feira".
func (r *reportRepository) ListDue(ctx context.Context, slot domain.Slot) ([]*domain.ReportDefinition, error) {
	times := []string{slot.TimeOfDay}
	if unpadded := strings.TrimPrefix(slot.TimeOfDay, "0"); unpadded != slot.TimeOfDay {
		times = append(times, unpadded)
	}

	query, args, err := r.conn.Dialect().StatementBuilder().
		Select("id, tenant_id, weekday, time_of_day, recipients, active").
		From(reportsTable).
		Where(squirrel.Eq{"active": true, "time_of_day": times}).
		OrderBy("tenant_id", "id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de relatórios")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao listar relatórios")
	}
	defer rows.Close()

	due := make([]*domain.ReportDefinition, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, domain.NewStoreError(err, "erro ao ler relatório")
		}

		if report.IsDue(slot) {
			due = append(due, report)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err, "erro ao iterar relatórios")
	}

	return due, nil
}

func (r *reportRepository) GetByID(ctx context.Context, reportID string) (*domain.ReportDefinition, error) {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Select("id, tenant_id, weekday, time_of_day, recipients, active").
		From(reportsTable).
		Where("id = ?", reportID).
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de relatório")
	}

	report, err := scanReport(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError(err, "erro ao buscar relatório")
	}

	return report, nil
}

func (r *reportRepository) Save(ctx context.Context, report *domain.ReportDefinition) error {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Insert(reportsTable).
		Columns("id", "tenant_id", "weekday", "time_of_day", "recipients", "active").
		Values(report.ID, report.TenantID, report.Weekday, report.TimeOfDay, report.Recipients, report.Active).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				tenant_id = EXCLUDED.tenant_id,
				weekday = EXCLUDED.weekday,
				time_of_day = EXCLUDED.time_of_day,
				recipients = EXCLUDED.recipients,
				active = EXCLUDED.active
		`).
		ToSql()
	if err != nil {
		return domain.NewStoreError(err, "erro ao construir a query de relatório")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError(err, "erro ao salvar relatório")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.ReportDefinition, error) {
	report := &domain.ReportDefinition{}

	if err := row.Scan(
		&report.ID,
		&report.TenantID,
		&report.Weekday,
		&report.TimeOfDay,
		&report.Recipients,
		&report.Active,
	); err != nil {
		return nil, err
	}

	return report, nil
}
