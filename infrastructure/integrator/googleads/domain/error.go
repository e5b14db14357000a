package googleadsdomain

import "net/http"

// ErrorResponse é o envelope de erro das APIs do Google
type ErrorResponse struct {
	Error *ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// IsTokenExpired indica token expirado ou inválido (código 401)
func (e *ErrorDetails) IsTokenExpired() bool {
	return e.Code == http.StatusUnauthorized || e.Status == "UNAUTHENTICATED"
}

func (e *ErrorDetails) IsPermissionDenied() bool {
	return e.Code == http.StatusForbidden || e.Status == "PERMISSION_DENIED"
}
