// Package sqlitetest cria bancos SQLite em memória já migrados para os testes.
package sqlitetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite"
)

func NewConnection(t testing.TB) *sqlite.Connection {
	t.Helper()

	conn, err := sqlite.New(context.Background(), sqlite.MemoryDSN)
	require.NoError(t, err, "falha ao criar banco de teste")

	require.NoError(t, conn.Migrate(context.Background()), "falha ao executar migrações")

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
