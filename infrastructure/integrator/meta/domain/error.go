package metadomain

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error *ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *ErrorDetails) IsTokenExpired() bool {
	// O código 190 representa "token expirado" nas respostas da API do Meta
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.Code == 190 ||
		(e.Type == "OAuthException" && (e.ErrorSubcode == 460 || e.ErrorSubcode == 463 || e.ErrorSubcode == 467))
}

// IsPermissionDenied cobre o código 10 e a faixa 200-299 de permissões da Graph API
func (e *ErrorDetails) IsPermissionDenied() bool {
	return e.Code == 10 || (e.Code >= 200 && e.Code <= 299)
}
