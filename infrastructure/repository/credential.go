package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/secret"
)

const credentialsTable = "ad_credentials"

type CredentialRepository interface {
	Get(ctx context.Context, tenantID string) (*domain.Credential, error)
	Put(ctx context.Context, credential *domain.Credential) error
	ListTenants(ctx context.Context) ([]string, error)
}

type credentialRepository struct {
	conn   database.Conn
	sealer secret.Sealer
}

func NewCredentialRepository(conn database.Conn, sealer secret.Sealer) CredentialRepository {
	if sealer == nil {
		sealer = secret.NewSealer("")
	}

	return &credentialRepository{
		conn:   conn,
		sealer: sealer,
	}
}

func (r *credentialRepository) Get(ctx context.Context, tenantID string) (*domain.Credential, error) {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Select("tenant_id, platform, access_token, refresh_token, expiry, selected_account_id, updated_at").
		From(credentialsTable).
		Where("tenant_id = ?", tenantID).
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de credencial")
	}

	var (
		cred     domain.Credential
		platform string
		expiry   sql.NullTime
	)

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&cred.TenantID,
		&platform,
		&cred.AccessToken,
		&cred.RefreshToken,
		&expiry,
		&cred.SelectedAccountID,
		&cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewConfigError(domain.ErrNotFound, "tenant sem credencial: "+tenantID)
		}
		return nil, domain.NewStoreError(err, "erro ao buscar credencial")
	}

	cred.Platform = domain.Platform(platform)
	if expiry.Valid {
		t := expiry.Time
		cred.Expiry = &t
	}

	if cred.AccessToken, err = r.sealer.Open(cred.AccessToken); err != nil {
		return nil, domain.NewConfigError(err, "access token ilegível")
	}
	if cred.RefreshToken, err = r.sealer.Open(cred.RefreshToken); err != nil {
		return nil, domain.NewConfigError(err, "refresh token ilegível")
	}

	return &cred, nil
}

// Put insere ou substitui a credencial do tenant
func (r *credentialRepository) Put(ctx context.Context, credential *domain.Credential) error {
	accessToken, err := r.sealer.Seal(credential.AccessToken)
	if err != nil {
		return domain.NewStoreError(err, "erro ao cifrar access token")
	}
	refreshToken, err := r.sealer.Seal(credential.RefreshToken)
	if err != nil {
		return domain.NewStoreError(err, "erro ao cifrar refresh token")
	}

	var expiry any
	if credential.Expiry != nil {
		expiry = credential.Expiry.UTC()
	}

	credential.UpdatedAt = time.Now().UTC()

	query, args, err := r.conn.Dialect().StatementBuilder().
		Insert(credentialsTable).
		Columns("tenant_id", "platform", "access_token", "refresh_token", "expiry", "selected_account_id", "updated_at").
		Values(
			credential.TenantID,
			string(credential.Platform),
			accessToken,
			refreshToken,
			expiry,
			credential.SelectedAccountID,
			credential.UpdatedAt,
		).
		Suffix(`
			ON CONFLICT (tenant_id) DO UPDATE SET
				platform = EXCLUDED.platform,
				access_token = EXCLUDED.access_token,
				refresh_token = EXCLUDED.refresh_token,
				expiry = EXCLUDED.expiry,
				selected_account_id = EXCLUDED.selected_account_id,
				updated_at = EXCLUDED.updated_at
		`).
		ToSql()
	if err != nil {
		return domain.NewStoreError(err, "erro ao construir a query de credencial")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError(err, "erro ao salvar credencial")
	}

	return nil
}

func (r *credentialRepository) ListTenants(ctx context.Context) ([]string, error) {
	query, args, err := r.conn.Dialect().StatementBuilder().
		Select("tenant_id").
		From(credentialsTable).
		OrderBy("tenant_id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao construir a query de tenants")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(err, "erro ao listar tenants")
	}
	defer rows.Close()

	tenants := make([]string, 0)
	for rows.Next() {
		var tenantID string
		if err := rows.Scan(&tenantID); err != nil {
			return nil, domain.NewStoreError(err, "erro ao ler tenant")
		}
		tenants = append(tenants, tenantID)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err, "erro ao iterar tenants")
	}

	return tenants, nil
}
