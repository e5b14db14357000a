package domain

import (
	"errors"
	"fmt"
)

// Categorias de erro tratadas no limite de processamento de cada relatório
var (
	ErrAuth       = errors.New("falha de autenticação na plataforma")
	ErrPermission = errors.New("operação não permitida para o tipo de conta")
	ErrPlatform   = errors.New("falha na plataforma de anúncios")
	ErrConfig     = errors.New("configuração do tenant incompleta")
	ErrStore      = errors.New("falha de persistência")

	ErrNotFound = errors.New("registro não encontrado")
)

// Error é um erro com categoria e contexto adicional
type Error struct {
	Kind    error  // Uma das categorias acima
	Err     error  // Erro original (opcional)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap expõe a categoria e o erro original para errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind, err error, details string) *Error {
	return &Error{Kind: kind, Err: err, Details: details}
}

func NewAuthError(err error, details string) *Error {
	return newError(ErrAuth, err, details)
}

func NewPermissionError(err error, details string) *Error {
	return newError(ErrPermission, err, details)
}

func NewPlatformError(err error, details string) *Error {
	return newError(ErrPlatform, err, details)
}

func NewConfigError(err error, details string) *Error {
	return newError(ErrConfig, err, details)
}

func NewStoreError(err error, details string) *Error {
	return newError(ErrStore, err, details)
}

func IsAuthError(err error) bool       { return errors.Is(err, ErrAuth) }
func IsPermissionError(err error) bool { return errors.Is(err, ErrPermission) }
func IsPlatformError(err error) bool   { return errors.Is(err, ErrPlatform) }
func IsConfigError(err error) bool     { return errors.Is(err, ErrConfig) }
func IsStoreError(err error) bool      { return errors.Is(err, ErrStore) }

// KindOf devolve um rótulo curto da categoria para campos de log
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case IsAuthError(err):
		return "auth"
	case IsPermissionError(err):
		return "permission"
	case IsConfigError(err):
		return "config"
	case IsStoreError(err):
		return "store"
	case IsPlatformError(err):
		return "platform"
	default:
		return "unknown"
	}
}
