package database

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn é a conexão usada pelos repositórios, independente do banco escolhido
type Conn interface {
	Queryer
	Dialect() Dialect
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Dialect reúne o que muda entre os bancos suportados
type Dialect struct {
	Name              string
	Placeholder       squirrel.PlaceholderFormat
	IsUniqueViolation func(err error) bool
}

// StatementBuilder devolve um builder do squirrel com o placeholder do banco
func (d Dialect) StatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}
