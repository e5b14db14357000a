package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Autenticação da API
	ErrMissingToken = "AUTH_001" // Cabeçalho Authorization ausente
	ErrInvalidToken = "AUTH_002" // Token inválido ou expirado

	// Integração com a plataforma de anúncios
	ErrPlatformAuth       = "ADS_001" // Token da plataforma recusado e não renovável
	ErrPlatformPermission = "ADS_002" // Conta sem permissão (ex.: gerenciadora)
	ErrTenantNotReady     = "ADS_003" // Tenant sem credencial ou conta selecionada
	ErrPlatformFailure    = "ADS_004" // Falha ou resposta inesperada da plataforma

	// Validação
	ErrInvalidRequest      = "VAL_001"
	ErrMissingRequiredData = "VAL_002"
	ErrNotFound            = "VAL_003"

	// Servidor
	ErrInternalServer    = "SRV_001"
	ErrDatabaseOperation = "SRV_002"
	ErrServiceDisabled   = "SRV_003"
)

var httpStatusMap = map[string]int{
	ErrMissingToken:        http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrPlatformAuth:        http.StatusUnauthorized,
	ErrPlatformPermission:  http.StatusForbidden,
	ErrTenantNotReady:      http.StatusUnprocessableEntity,
	ErrPlatformFailure:     http.StatusBadGateway,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrNotFound:            http.StatusNotFound,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrServiceDisabled:     http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor devolve o status HTTP de um código de erro
func StatusFor(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// CodeFor traduz a categoria do erro de domínio para o código da API.
// A categoria vence o ErrNotFound embrulhado: credencial ausente chega como
// ConfigError e vira 422. Só ErrNotFound sem categoria vira 404.
func CodeFor(err error) string {
	switch {
	case domain.IsAuthError(err):
		return ErrPlatformAuth
	case domain.IsPermissionError(err):
		return ErrPlatformPermission
	case domain.IsConfigError(err):
		return ErrTenantNotReady
	case domain.IsStoreError(err):
		return ErrDatabaseOperation
	case domain.IsPlatformError(err):
		return ErrPlatformFailure
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound
	default:
		return ErrInternalServer
	}
}

// WriteDomainError escreve um erro da taxonomia de domínio
func WriteDomainError(w http.ResponseWriter, err error) {
	code := CodeFor(err)

	message := err.Error()
	if code == ErrInternalServer || code == ErrDatabaseOperation {
		message = "Erro interno ao processar a requisição"
	}

	WriteError(w, code, message, nil)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
