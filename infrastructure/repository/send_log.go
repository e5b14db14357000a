package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/utils"
)

const sendLogTable = "report_send_log"

// SendLogRepository é o registro de idempotência dos envios.
// Claim reserva a ocorrência de forma atômica; Complete grava o envio e
// Release desfaz a reserva quando o processamento falha.
type SendLogRepository interface {
	Claim(ctx context.Context, key domain.SendLogKey, tenantID string) (bool, error)
	Complete(ctx context.Context, key domain.SendLogKey, result *domain.DeliveryResult) error
	Release(ctx context.Context, key domain.SendLogKey) error
	Find(ctx context.Context, key domain.SendLogKey) (*domain.SendLogEntry, error)
	ListByReport(ctx context.Context, reportID string, limit uint64) ([]*domain.SendLogEntry, error)
}

type sendLogRepository struct {
	conn database.Conn
}

func NewSendLogRepository(conn database.Conn) SendLogRepository {
	return &sendLogRepository{
		conn: conn,
	}
}

func keyClause(key domain.SendLogKey) squirrel.Eq {
	return squirrel.Eq{
		"report_id":       key.ReportID,
		"weekday":         key.Weekday,
		"time_of_day":     key.TimeOfDay,
		"occurrence_date": key.OccurrenceDate,
	}
}

// Claim insere a reserva se ainda não existir registro para a chave.
// Devolve false quando outra execução já reservou ou concluiu a ocorrência.
func (r *sendLogRepository) Claim(ctx context.Context, key domain.SendLogKey, tenantID string) (bool, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return false, domain.NewStoreError(err, "erro ao gerar id do registro de envio")
	}

	query, args, err := r.conn.Dialect().StatementBuilder().
		Insert(sendLogTable).
		Columns("id", "report_id", "tenant_id", "weekday", "time_of_day", "occurrence_date", "status", "created_at").
		Values(id, key.ReportID, tenantID, key.Weekday, key.TimeOfDay, key.OccurrenceDate, string(domain.SendLogStatusPending), time.Now().UTC()).
		Suffix("ON CONFLICT (report_id, weekday, time_of_day, occurrence_date) DO NOTHING").
		ToSql()
	if err != nil {
		return false, domain.NewStoreError(err, "erro ao construir a query de reserva")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if r.conn.Dialect().IsUniqueViolation(err) {
			return false, nil
		}
		return false, domain.NewStoreError(err, "erro ao reservar envio")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, domain.NewStoreError(err, "erro ao verificar reserva")
	}

	return affected == 1, nil
}

func (r *sendLogRepository) Complete(ctx context.Context, key domain.SendLogKey, delivery *domain.DeliveryResult) error {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Update(sendLogTable).
		Set("status", string(domain.SendLogStatusSent)).
		Set("sent_at", delivery.SentAt.UTC()).
		Set("recipient_count", delivery.Attempted).
		Set("failed_count", delivery.Failed).
		Set("message", delivery.Message).
		Where(keyClause(key)).
		Where(squirrel.Eq{"status": string(domain.SendLogStatusPending)}).
		ToSql()
	if err != nil {
		return domain.NewStoreError(err, "erro ao construir a query de conclusão")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.NewStoreError(err, "erro ao concluir registro de envio")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError(err, "erro ao verificar conclusão")
	}
	if affected == 0 {
		return domain.NewStoreError(domain.ErrNotFound, "reserva de envio inexistente")
	}

	return nil
}

// Release remove uma reserva pendente. Registros concluídos nunca são apagados.
func (r *sendLogRepository) Release(ctx context.Context, key domain.SendLogKey) error {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Delete(sendLogTable).
		Where(keyClause(key)).
		Where(squirrel.Eq{"status": string(domain.SendLogStatusPending)}).
		ToSql()
	if err != nil {
		return domain.NewStoreError(err, "erro ao construir a query de liberação")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError(err, "erro ao liberar reserva de envio")
	}

	return nil
}

func (r *sendLogRepository) Find(ctx context.Context, key domain.SendLogKey) (*domain.SendLogEntry, error) {
	query, args, err := r.selectEntries().
		Where(keyClause(key)).
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de registro")
	}

	entry, err := scanSendLog(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError(err, "erro ao buscar registro de envio")
	}

	return entry, nil
}

// ListByReport devolve os envios concluídos de um relatório, do mais recente ao mais antigo
func (r *sendLogRepository) ListByReport(ctx context.Context, reportID string, limit uint64) ([]*domain.SendLogEntry, error) {
	builder := r.selectEntries().
		Where(squirrel.Eq{"report_id": reportID, "status": string(domain.SendLogStatusSent)}).
		OrderBy("occurrence_date DESC", "time_of_day DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de registros")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao listar registros de envio")
	}
	defer rows.Close()

	entries := make([]*domain.SendLogEntry, 0)
	for rows.Next() {
		entry, err := scanSendLog(rows)
		if err != nil {
			return nil, domain.NewStoreError(err, "erro ao ler registro de envio")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err, "erro ao iterar registros de envio")
	}

	return entries, nil
}

func (r *sendLogRepository) selectEntries() squirrel.SelectBuilder {
	return r.conn.Dialect().StatementBuilder().
		Select("id, report_id, tenant_id, weekday, time_of_day, occurrence_date, status, sent_at, recipient_count, failed_count, message, created_at").
		From(sendLogTable)
}

func scanSendLog(row rowScanner) (*domain.SendLogEntry, error) {
	var (
		entry  domain.SendLogEntry
		status string
		sentAt sql.NullTime
	)

	if err := row.Scan(
		&entry.ID,
		&entry.ReportID,
		&entry.TenantID,
		&entry.Weekday,
		&entry.TimeOfDay,
		&entry.OccurrenceDate,
		&status,
		&sentAt,
		&entry.RecipientCount,
		&entry.FailedCount,
		&entry.Message,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	entry.Status = domain.SendLogStatus(status)
	if sentAt.Valid {
		t := sentAt.Time
		entry.SentAt = &t
	}

	return &entry, nil
}
